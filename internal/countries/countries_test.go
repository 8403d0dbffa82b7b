package countries

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "code,name\nSN,Sénégal\nBJ,Bénin\nCI,Côte d'Ivoire\nCM,Cameroun\nEG,Égypte\nZZ,\nBF,Burkina Faso\n"

type fakeBucket struct {
	body string
	err  error
	got  string
}

func (f *fakeBucket) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	f.got = bucket + "/" + key
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestParse(t *testing.T) {
	names, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sénégal", "Bénin", "Côte d'Ivoire", "Cameroun", "Égypte", "Burkina Faso"}, names)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("code,label\nSN,Sénégal\n"))
	assert.Error(t, err)

	names, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestParseBOMHeader(t *testing.T) {
	names, err := Parse(strings.NewReader("\ufeffname\nTogo\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Togo"}, names)
}

func TestCountriesSortedWithCollation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	names, err := NewLoader(FileSource(path), nil).Countries(context.Background())
	require.NoError(t, err)
	// Accented initials sort with their base letter, unlike a byte-wise sort.
	assert.Equal(t, []string{"Bénin", "Burkina Faso", "Cameroun", "Côte d'Ivoire", "Égypte", "Sénégal"}, names)
}

func TestCountriesFromS3(t *testing.T) {
	bucket := &fakeBucket{body: "name\nMali\nGhana\n"}

	names, err := NewLoader(S3Source(bucket, "ref", "countries.csv"), nil).Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghana", "Mali"}, names)
	assert.Equal(t, "ref/countries.csv", bucket.got)
}

func TestSafeSwallowsErrors(t *testing.T) {
	l := NewLoader(S3Source(&fakeBucket{err: errors.New("access denied")}, "ref", "k"), nil)
	assert.Equal(t, []string{}, l.Safe(context.Background()))

	l = NewLoader(FileSource(filepath.Join(t.TempDir(), "missing.csv")), nil)
	assert.Empty(t, l.Safe(context.Background()))
}
