package eft

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/format"
	"github.com/veduco/EFTSuite-Public/imaging"
)

func fixedClock() string { return "20250115:120000" }

func testBiographic() Biographic {
	return Biographic{
		"2.018": "Doe, Jane",
		"2.022": "19900101",
		"2.016": "123456789",
	}
}

func grayPlane(width, height int) []byte {
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = byte(i % 253)
	}

	return pixels
}

func slapAssets(width, height int) []*imaging.Asset {
	var assets []*imaging.Asset
	for _, position := range []int{13, 14, 15} {
		// Salt by position so the three planes carry distinct content.
		pixels := grayPlane(width, height)
		for i := range pixels {
			pixels[i] += byte(position)
		}
		assets = append(assets, imaging.NewAsset(pixels, width, height, position))
	}

	return assets
}

func newTestEncoder(t *testing.T, opts ...EncoderOption) *Encoder {
	t.Helper()

	base := []EncoderOption{
		WithClock(fixedClock),
		WithRand(rand.New(rand.NewSource(7))),
		WithCodec(codec.NewStub()),
		WithScratchRoot(t.TempDir()),
	}
	enc, err := NewEncoder(append(base, opts...)...)
	require.NoError(t, err)

	return enc
}

func TestEncode_MinimalATF(t *testing.T) {
	enc := newTestEncoder(t)

	result, err := enc.Encode(context.Background(), testBiographic(), slapAssets(800, 800))
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Equal(t, format.CGANone, result.CGA)
	require.Zero(t, result.Bitrate)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Len(t, file.Records, 5)

	require.Equal(t, format.TypeTransaction, file.Records[0].RecordType)
	require.Equal(t, format.TypeDescriptive, file.Records[1].RecordType)
	require.Equal(t, format.TypeVariableRes, file.Records[2].RecordType)
	require.Equal(t, format.TypeVariableRes, file.Records[3].RecordType)
	require.Equal(t, format.TypeVariableRes, file.Records[4].RecordType)

	us, rs := string(encoding.US), string(encoding.RS)
	wantCNT := "1" + us + "4" +
		rs + "2" + us + "01" +
		rs + "14" + us + "02" +
		rs + "14" + us + "03" +
		rs + "14" + us + "04"
	require.Equal(t, wantCNT, file.Records[0].GetString(3))

	// Every tagged record's 001 equals its serialized byte count.
	for _, view := range file.Records {
		if view.RecordType == format.TypeHighResGray {
			continue
		}
		declared, err := strconv.Atoi(view.GetString(1))
		require.NoError(t, err)
		require.Equal(t, len(view.Raw), declared)
	}

	// Alias was never provided: no 2.019 tag exists.
	require.False(t, file.Records[1].Fields.Has(encoding.NewTag(2, 19)))

	// TCN: fixed clock and seed make it reproducible in shape.
	require.Regexp(t, `^250115-DJ-\d{2}$`, result.TCN)
	require.Equal(t, result.TCN, file.Records[0].GetString(9))

	// No Type-4 present: resolutions stay pinned.
	require.Equal(t, "00.00", file.Records[0].GetString(11))
	require.Equal(t, "00.00", file.Records[0].GetString(12))
}

func TestEncode_Deterministic(t *testing.T) {
	first, err := newTestEncoder(t).Encode(context.Background(), testBiographic(), slapAssets(400, 400))
	require.NoError(t, err)

	second, err := newTestEncoder(t).Encode(context.Background(), testBiographic(), slapAssets(400, 400))
	require.NoError(t, err)

	require.Equal(t, first.Data, second.Data)
	require.Equal(t, first.TCN, second.TCN)
}

func TestEncode_RolledType4(t *testing.T) {
	enc := newTestEncoder(t, WithMode(format.ModeRolled))

	var assets []*imaging.Asset
	for position := 1; position <= 10; position++ {
		assets = append(assets, imaging.NewAsset(grayPlane(800, 750), 800, 750, position))
	}
	assets = append(assets, imaging.NewAsset(grayPlane(1600, 1000), 1600, 1000, 13))

	result, err := enc.Encode(context.Background(), testBiographic(), assets)
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Len(t, file.Records, 13) // T1 + T2 + 11 binary records

	images := file.ImageRecords()
	require.Len(t, images, 11)

	for i, view := range images {
		require.Equal(t, format.TypeHighResGray, view.RecordType)

		position := view.Position()
		if i < 10 {
			require.Equal(t, i+1, position)
			require.Equal(t, "1", view.GetString(3)) // rolled
			require.Len(t, view.Image, 800*750)
		} else {
			require.Equal(t, 13, position)
			require.Equal(t, "0", view.GetString(3)) // plain
			require.Len(t, view.Image, 1600*1000)
		}
	}

	// Type-4 present: 1.011/1.012 reflect the 500 PPI native resolution.
	require.Equal(t, "19.69", file.Records[0].GetString(11))
	require.Equal(t, "19.69", file.Records[0].GetString(12))
}

func TestEncode_RolledNormalizesGeometry(t *testing.T) {
	enc := newTestEncoder(t, WithMode(format.ModeRolled))

	// 640x480 source must be resized to the canonical 800x750.
	assets := []*imaging.Asset{imaging.NewAsset(grayPlane(640, 480), 640, 480, 1)}

	result, err := enc.Encode(context.Background(), testBiographic(), assets)
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)

	images := file.ImageRecords()
	require.Len(t, images, 1)
	require.Equal(t, "800", images[0].GetString(6))
	require.Equal(t, "750", images[0].GetString(7))
	require.Len(t, images[0].Image, 800*750)
}

func TestEncode_EmptyNameRejected(t *testing.T) {
	enc := newTestEncoder(t)

	bio := testBiographic()
	bio["2.018"] = ""

	_, err := enc.Encode(context.Background(), bio, slapAssets(100, 100))
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestEncode_SSNRequiredUnlessBypassed(t *testing.T) {
	bio := testBiographic()
	bio["2.016"] = "12345" // not nine digits

	_, err := newTestEncoder(t).Encode(context.Background(), bio, slapAssets(100, 100))
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	result, err := newTestEncoder(t, WithBypassSSN(true)).Encode(context.Background(), bio, slapAssets(100, 100))
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.False(t, file.Records[1].Fields.Has(encoding.NewTag(2, 16)))
}

func TestEncode_InvalidDimensionsRejected(t *testing.T) {
	enc := newTestEncoder(t)

	assets := []*imaging.Asset{imaging.NewAsset(nil, 0, 0, 13)}
	_, err := enc.Encode(context.Background(), testBiographic(), assets)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestEncode_UnknownBiographicKeysPreserved(t *testing.T) {
	bio := testBiographic()
	bio["2.067"] = "custom"

	result, err := newTestEncoder(t).Encode(context.Background(), bio, slapAssets(100, 100))
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Equal(t, "custom", file.Records[1].Fields.GetString(encoding.NewTag(2, 67)))
}

func TestEncode_NameNormalization(t *testing.T) {
	bio := testBiographic()
	bio["2.018"] = "Doe, Jane"

	result, err := newTestEncoder(t).Encode(context.Background(), bio, slapAssets(100, 100))
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)
	require.Equal(t, "Doe, Jane NMN", file.Records[1].GetString(18))
}

func TestEncode_SubConformantResolutionWarns(t *testing.T) {
	assets := slapAssets(100, 100)
	assets[0].PPI = 300

	result, err := newTestEncoder(t).Encode(context.Background(), testBiographic(), assets)
	require.NoError(t, err)

	found := false
	for _, warning := range result.Warnings {
		if strings.Contains(warning.Error(), "PPI") {
			found = true
		}
	}
	require.True(t, found)
}

func TestEncode_SegmentsScoredAndSerialized(t *testing.T) {
	assets := slapAssets(400, 400)
	assets[0].Segments = []imaging.Segment{
		{Position: 2, X1: 0, X2: 100, Y1: 0, Y2: 100},
		{Position: 3, X1: 100, X2: 200, Y1: 0, Y2: 100, Quality: 1},
	}

	result, err := newTestEncoder(t).Encode(context.Background(), testBiographic(), assets)
	require.NoError(t, err)

	file, err := Parse(result.Data)
	require.NoError(t, err)

	view := file.ImageRecords()[0]
	us := string(encoding.US)
	// The unscored segment got the stub's score of 3; the pre-scored one kept 1.
	quality := view.GetString(23)
	require.Contains(t, quality, "2"+us+"3"+us)
	require.Contains(t, quality, "3"+us+"1"+us)
}

func TestEncode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEncoder(t).Encode(ctx, testBiographic(), slapAssets(100, 100))
	require.ErrorIs(t, err, errs.ErrCancelled)
}
