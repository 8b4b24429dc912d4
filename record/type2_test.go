package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veduco/EFTSuite-Public/encoding"
	"github.com/veduco/EFTSuite-Public/errs"
)

func TestType2_EmptyFieldsOmitted(t *testing.T) {
	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"

	data, err := t2.Serialize()
	require.NoError(t, err)

	text := string(data)
	require.Contains(t, text, "2.018:Doe, Jane NMN")
	require.NotContains(t, text, "2.019")
	require.NotContains(t, text, "2.016")
	require.NotContains(t, text, "2.022")
}

func TestType2_IDCZeroPadded(t *testing.T) {
	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"

	data, err := t2.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), "2.002:01")
}

func TestType2_LengthInvariant(t *testing.T) {
	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"
	t2.SSN = "123456789"
	t2.DOB = "19900101"
	t2.Residence = "123 Main Street, Anytown WV"

	data, err := t2.Serialize()
	require.NoError(t, err)

	declared, err := t2.DeclaredLength()
	require.NoError(t, err)
	require.Len(t, data, declared)
	require.True(t, strings.HasPrefix(string(data), "2.001:"))
	require.Equal(t, encoding.FS, data[len(data)-1])
}

func TestType2_ValidateRequiresName(t *testing.T) {
	t2 := NewType2()
	require.ErrorIs(t, t2.Validate(), errs.ErrInvalidInput)

	t2.Name = "Doe, Jane NMN"
	require.NoError(t, t2.Validate())
}

func TestType2_UnknownFieldsRoundTrip(t *testing.T) {
	fields := encoding.NewFieldMap()
	fields.SetString(encoding.NewTag(2, 1), "99")
	fields.SetString(encoding.NewTag(2, 2), "01")
	fields.SetString(encoding.NewTag(2, 18), "Doe, Jane NMN")
	fields.SetString(encoding.NewTag(2, 67), "custom value")

	t2 := NewType2()
	t2.FromFields(fields)

	require.Equal(t, "Doe, Jane NMN", t2.Name)
	require.NotNil(t, t2.Extra)
	require.Equal(t, "custom value", t2.Extra.GetString(encoding.NewTag(2, 67)))

	data, err := t2.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), "2.067:custom value")
}

func TestType2_RetentionConstant(t *testing.T) {
	t2 := NewType2()
	t2.Name = "Doe, Jane NMN"

	data, err := t2.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), "2.005:N")
	require.Contains(t, string(data), "2.073:"+DefaultORI)
}
