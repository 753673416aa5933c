package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDateNormalizer_RewritesDayMonthYear(t *testing.T) {
	in := Document{"objectId": "abc123", "creationDate": "25-12-2023"}
	out, err := NewDateNormalizer().Normalize(in)
	require.NoError(t, err)
	require.Equal(t, "2023-12-25", out["creationDate"])
	// the input document is not mutated
	require.Equal(t, "25-12-2023", in["creationDate"])
}

func TestDateNormalizer_AbsentFieldNotInjected(t *testing.T) {
	out, err := NewDateNormalizer().Normalize(Document{"objectId": "a"})
	require.NoError(t, err)
	_, ok := out["creationDate"]
	require.False(t, ok)
}

func TestDateNormalizer_CanonicalPassesThrough(t *testing.T) {
	n := NewDateNormalizer()
	once, err := n.Normalize(Document{"creationDate": "12-01-2017"})
	require.NoError(t, err)
	twice, err := n.Normalize(once)
	require.NoError(t, err)
	require.Equal(t, "2017-01-12", twice["creationDate"])
}

func TestDateNormalizer_NonStringLeftForSchema(t *testing.T) {
	out, err := NewDateNormalizer().Normalize(Document{"creationDate": true})
	require.NoError(t, err)
	require.Equal(t, true, out["creationDate"])
}

func TestDateNormalizer_RejectsMalformed(t *testing.T) {
	for _, v := range []string{"", "garbage", "31-02-2023", "2023/12/25", "12-25-2023"} {
		_, err := NewDateNormalizer().Normalize(Document{"creationDate": v})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), v)
		require.Len(t, ve.Errors, 1)
		require.Equal(t, "creationDate", ve.Errors[0].Field)
	}
}
