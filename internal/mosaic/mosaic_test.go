package mosaic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupByDate(t *testing.T) {
	files := []string{
		"vnp46a2-a2016153-h30v05-001-2020267141459.tif",
		"vnp46a2-a2016153-h30v06-001-2020267141500.tif",
		"vnp46a2-a2016154-h30v05-001-2020267141501.tif",
	}
	groups, dates, err := GroupByDate(files)
	require.NoError(t, err)
	require.Equal(t, []string{"2016153", "2016154"}, dates)
	require.Len(t, groups["2016153"], 2)
	require.Len(t, groups["2016154"], 1)
}

func TestGroupByDateRejectsUndatedFiles(t *testing.T) {
	_, _, err := GroupByDate([]string{"mystery.tif"})
	require.Error(t, err)
}
