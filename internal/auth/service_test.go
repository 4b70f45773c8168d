package auth

import (
	"errors"
	"testing"
)

func TestLogin(t *testing.T) {
	svc := NewService("1234")

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "match", password: "1234", wantErr: nil},
		{name: "mismatch", password: "4321", wantErr: ErrWrongPassword},
		{name: "empty", password: "", wantErr: ErrWrongPassword},
		{name: "no trimming", password: " 1234", wantErr: ErrWrongPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Login(tc.password); !errors.Is(err, tc.wantErr) {
				t.Fatalf("Login(%q) = %v, want %v", tc.password, err, tc.wantErr)
			}
		})
	}
}
