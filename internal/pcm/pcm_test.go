package pcm

import "testing"

func TestParamsString(t *testing.T) {
	tests := []struct {
		params Params
		want   string
	}{
		{Params{Rate: 8000, Channels: 1, Format: FormatS16LE, Access: AccessRWInterleaved}, "S16_LE 8000Hz 1ch rw_interleaved"},
		{Params{Rate: 48000, Channels: 2, Format: FormatS24LE, Access: AccessMMapInterleaved}, "S24_LE 48000Hz 2ch mmap_interleaved"},
		{Params{Format: Format(42), Access: Access(9)}, "unknown 0Hz 0ch unknown"},
	}

	for _, tt := range tests {
		if got := tt.params.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
