package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionAlgorithm_Text(t *testing.T) {
	require.Equal(t, "NONE", CGANone.Text())
	require.Equal(t, "WSQ20", CGAWSQ.Text())
	require.Equal(t, "JP2", CGAJP2.Text())
	require.Equal(t, "PNG", CGAPNG.Text())
}

func TestParseCGAText(t *testing.T) {
	require.Equal(t, CGAWSQ, ParseCGAText("WSQ20"))
	require.Equal(t, CGAWSQ, ParseCGAText("WSQ"))
	require.Equal(t, CGAWSQ, ParseCGAText("1"))
	require.Equal(t, CGAJP2, ParseCGAText("JP2"))
	require.Equal(t, CGANone, ParseCGAText("NONE"))
	require.Equal(t, CGANone, ParseCGAText("garbage"))
}

func TestImpressionFor(t *testing.T) {
	require.Equal(t, ImpressionRolled, ImpressionFor(1))
	require.Equal(t, ImpressionRolled, ImpressionFor(10))
	require.Equal(t, ImpressionPlain, ImpressionFor(11))
	require.Equal(t, ImpressionPlain, ImpressionFor(14))
}

func TestSlapFingers(t *testing.T) {
	require.Equal(t, []int{2, 3, 4, 5}, SlapFingers(13))
	require.Equal(t, []int{7, 8, 9, 10}, SlapFingers(14))
	require.Equal(t, []int{1, 6, 11, 12}, SlapFingers(15))
	require.Nil(t, SlapFingers(1))
}

func TestDetectImageFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want ImageFormat
	}{
		{"wsq", []byte{0xFF, 0xA0, 0x00}, ImageWSQ},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF}, ImageJPEG},
		{"jp2 signature box", []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20}, ImageJP2},
		{"jp2 brand at offset 4", append([]byte{1, 2, 3, 4}, []byte("jP  more")...), ImageJP2},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, ImagePNG},
		{"raw pixels", []byte{0x80, 0x81, 0x82}, ImageRaw},
		{"empty", nil, ImageRaw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DetectImageFormat(tt.data))
		})
	}
}

func TestImageFormat_Ext(t *testing.T) {
	require.Equal(t, "wsq", ImageWSQ.Ext())
	require.Equal(t, "jpg", ImageJPEG.Ext())
	require.Equal(t, "jp2", ImageJP2.Ext())
	require.Equal(t, "png", ImagePNG.Ext())
	require.Equal(t, "raw", ImageRaw.Ext())
}
