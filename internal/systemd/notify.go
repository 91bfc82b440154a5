package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// Ready tells systemd the daemon finished starting. It reports false when
// not running under a Type=notify unit.
func Ready() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyReady)
}

// Stopping tells systemd the daemon is shutting down.
func Stopping() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status.
func Status(line string) (bool, error) {
	return daemon.SdNotify(false, "STATUS="+line)
}
