package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "/"},
		{"root", "/", "/"},
		{"uuid", "/api/v1/message/get/0b5f1c9e-3a57-4c2e-9d43-2f4fd9a0a111", "/api/v1/message/get/{param}"},
		{"numeric", "/api/v1/application/status/42/update", "/api/v1/application/status/{param}/update"},
		{"non uuid id kept", "/api/v1/message/send/65a1f0c2b3d4e5f601234567", "/api/v1/message/send/65a1f0c2b3d4e5f601234567"},
		{"static", "/api/v1/message/conversations", "/api/v1/message/conversations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
