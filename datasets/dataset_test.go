package datasets

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	const in = `f0,f1,f2,class
# comment
1,2,3,a
4.5, 5, -6,b
`
	d, err := ReadCSV(strings.NewReader(in), -1)
	require.NoError(t, err)
	assert.Equal(t, Dataset{
		{Features: []float64{1, 2, 3}, Label: "a"},
		{Features: []float64{4.5, 5, -6}, Label: "b"},
	}, d)
	assert.Equal(t, 3, d.Width())
}

func TestReadCSVLabelFirst(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("7,0,1\n3,1,0\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "3"}, d.Labels())
	assert.Equal(t, []float64{0, 1}, d[0].Features)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("1,2,a\n1,x,b\n"), -1)
	assert.True(t, errors.Is(err, ErrMalformed), "%v", err)

	_, err = ReadCSV(strings.NewReader("1,2,a\n"), 5)
	assert.True(t, errors.Is(err, ErrMalformed), "%v", err)

	_, err = ReadCSV(strings.NewReader("1,2,a\n1,2\n"), -1)
	assert.True(t, errors.Is(err, ErrMalformed), "%v", err)
}

func TestSplitAndShuffle(t *testing.T) {
	var d Dataset
	for i := 0; i < 10; i++ {
		d = append(d, Sample{Features: []float64{float64(i)}, Label: string(rune('a' + i%3))})
	}
	head, tail := d.Split(0.8)
	assert.Len(t, head, 8)
	assert.Len(t, tail, 2)
	head, tail = d.Split(2)
	assert.Len(t, head, 10)
	assert.Empty(t, tail)

	d.Shuffle(rand.New(rand.NewSource(1)))
	assert.Len(t, d, 10)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, d.Labels())
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 0, Dataset{}.Width())
	assert.Equal(t, -1, Dataset{{Features: []float64{1}}, {Features: []float64{1, 2}}}.Width())
}
