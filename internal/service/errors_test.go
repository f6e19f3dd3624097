package service

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/allinbank/internal/auth"
	"github.com/mmynk/allinbank/internal/calculator"
	"github.com/mmynk/allinbank/internal/ledger"
	"github.com/mmynk/allinbank/internal/storage"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"invalid amount", fmt.Errorf("entry 2: %w", ledger.ErrInvalidAmount), connect.CodeInvalidArgument},
		{"invalid kind", ledger.ErrInvalidKind, connect.CodeInvalidArgument},
		{"invalid name", ledger.ErrInvalidName, connect.CodeInvalidArgument},
		{"weak passcode", auth.ErrWeakPasscode, connect.CodeInvalidArgument},
		{"missing entry", ledger.ErrEntryNotFound, connect.CodeNotFound},
		{"missing game", fmt.Errorf("game %w: x", storage.ErrNotFound), connect.CodeNotFound},
		{"unbalanced", calculator.ErrUnbalancedLedger, connect.CodeFailedPrecondition},
		{"bad passcode", auth.ErrInvalidPasscode, connect.CodePermissionDenied},
		{"already mapped", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken), connect.CodeUnauthenticated},
		{"unknown", errors.New("disk on fire"), connect.CodeInternal},
		{
			name: "corrupt stored ledger",
			err:  fmt.Errorf("%w: game g1: %w", errCorruptLedger, ledger.ErrInvalidAmount),
			want: connect.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toConnectError(tt.err)
			if code := connect.CodeOf(got); code != tt.want {
				t.Errorf("toConnectError(%v) code = %v, want %v", tt.err, code, tt.want)
			}
			if !errors.Is(got, tt.err) && connect.CodeOf(tt.err) == connect.CodeUnknown {
				t.Errorf("toConnectError(%v) lost the cause", tt.err)
			}
		})
	}
}
