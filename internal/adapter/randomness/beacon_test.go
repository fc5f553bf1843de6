package randomness

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignature = "8f3a2b1c"

// roundBody renders a drand round whose randomness is sha256(signature).
func roundBody(round uint64, signature string) string {
	sig, _ := hex.DecodeString(signature)
	digest := sha256.Sum256(sig)
	return fmt.Sprintf(`{"round":%d,"randomness":%q,"signature":%q}`, round, hex.EncodeToString(digest[:]), signature)
}

func TestBeacon_Draw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/latest", r.URL.Path)
		_, _ = w.Write([]byte(roundBody(1234, testSignature)))
	}))
	defer srv.Close()

	b := NewBeacon(config.RandomnessConfig{URL: srv.URL, Timeout: time.Second}, srv.Client(), zerolog.Nop())
	r, err := b.Draw(context.Background(), "req-1")
	require.NoError(t, err)

	sig, _ := hex.DecodeString(testSignature)
	want := sha256.Sum256(sig)
	assert.Equal(t, want[:], r.Value)
	assert.Equal(t, testSignature, r.Proof.Signature)
	assert.False(t, r.Fallback)
	assert.Equal(t, domain.RandomnessSourceBeacon, r.Proof.Source)
	assert.Equal(t, uint64(1234), r.Proof.Round)
	assert.Equal(t, "req-1", r.Proof.RequestID)
	assert.NoError(t, r.Proof.Validate())
}

func TestBeacon_Draw_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, ``},
		{"bad json", http.StatusOK, `{"round":`},
		{"non-hex randomness", http.StatusOK, `{"round":1,"randomness":"zz"}`},
		{"empty randomness", http.StatusOK, `{"round":1,"randomness":""}`},
		{"missing signature", http.StatusOK, `{"round":1,"randomness":"a1b2c3"}`},
		{"randomness not derived from signature", http.StatusOK, `{"round":1,"randomness":"a1b2c3","signature":"8f3a2b1c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := NewBeacon(config.RandomnessConfig{URL: srv.URL}, srv.Client(), zerolog.Nop())
			_, err := b.Draw(context.Background(), "req")
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindExternal))
		})
	}
}

func TestBeacon_Draw_NotConfigured(t *testing.T) {
	b := NewBeacon(config.RandomnessConfig{}, http.DefaultClient, zerolog.Nop())
	_, err := b.Draw(context.Background(), "req")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
