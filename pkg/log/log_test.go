package log

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"gibberish", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, parseLevel(tc.in), "parseLevel(%q)", tc.in)
	}
}

func TestCtx_RoundTripAndFallback(t *testing.T) {
	req := require.New(t)

	custom := zerolog.New(io.Discard).With().Str("scope", "test").Logger()
	ctx := WithLogger(context.Background(), custom)
	req.Equal(custom, Ctx(ctx))

	// Without a stored logger the global one is returned.
	req.Equal(L(), Ctx(context.Background()))
}
