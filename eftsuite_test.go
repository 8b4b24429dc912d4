package eftsuite

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/eft"
	"github.com/veduco/EFTSuite-Public/imaging"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	enc, err := NewEncoder(
		eft.WithClock(func() string { return "20250115:120000" }),
		eft.WithRand(rand.New(rand.NewSource(1))),
		eft.WithCodec(codec.NewStub()),
		eft.WithScratchRoot(t.TempDir()),
	)
	require.NoError(t, err)

	pixels := make([]byte, 300*300)
	for i := range pixels {
		pixels[i] = byte(i % 200)
	}

	result, err := enc.Encode(context.Background(), eft.Biographic{
		"2.018": "Doe, Jane",
		"2.016": "123456789",
	}, []*imaging.Asset{imaging.NewAsset(pixels, 300, 300, 13)})
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Len(t, file.Records, 3)
	require.NotEmpty(t, file.Dump())
}

func TestSweepScratch(t *testing.T) {
	// The default root may not exist in a fresh environment; the sweep is a
	// no-op then.
	_, err := SweepScratch(time.Hour, nil)
	require.NoError(t, err)
}

func TestNewParser(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	require.NotNil(t, p)
}
