package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleTable_Lookup(t *testing.T) {
	table := NewTitleTable(map[string]string{
		"The Big Bang Theory":      "BBT",
		"Order":                    "Disorder",
		"Law and Order":            "L&O",
		"Law":                      "Rule",
		"SVU":                      "Special Victims Unit",
		"Labyrinth":                "Labyrinth of the Faun",
		"Danganronpa  Despair Arc": "Danganronpa 3 Despair Arc",
		"$$Boku no Hero Academia":  "My Hero Academia",
	})

	tests := []struct {
		name   string
		title  string
		want   string
		wantOK bool
	}{
		{"exact", "The Big Bang Theory", "BBT", true},
		{"exact ignores case", "the big bang THEORY", "BBT", true},
		{"exact collapses key whitespace", "Danganronpa Despair Arc", "Danganronpa 3 Despair Arc", true},
		{"longest contained key wins", "Law and Order Criminal Intent", "L&O Criminal Intent", true},
		{"similar key wins a length tie", "Law Abiding SVU", "Rule Abiding SVU", true},
		{"first occurrence only", "Order Order", "Disorder Order", true},
		{"contained ignoring case", "Chicago svu", "Chicago Special Victims Unit", true},
		{"replacement already present", "Chicago Special Victims Unit", "", false},
		{"replacement extends its key", "Pans Labyrinth", "Pans Labyrinth of the Faun", true},
		{"extended title is left alone", "Pans Labyrinth of the Faun", "", false},
		{"folder keys are not titles", "Boku no Hero Academia", "", false},
		{"no match", "Tokyo Ghoul", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Lookup(tt.title)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleTable_Folder(t *testing.T) {
	table := NewTitleTable(map[string]string{
		"$$Boku no Hero Academia": "My Hero Academia",
		"Tokyo Ghoul":             "Tokyo Ghoul Root A",
	})

	got, ok := table.Folder("boku no hero academia")
	require.True(t, ok)
	assert.Equal(t, "My Hero Academia", got)

	_, ok = table.Folder("Tokyo Ghoul")
	assert.False(t, ok)
}

func TestTitleTable_With(t *testing.T) {
	base := NewTitleTable(map[string]string{"a": "A"})
	extended := base.With("b", "B")

	_, ok := base.Lookup("b")
	assert.False(t, ok, "With must not modify the receiver")

	got, ok := extended.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "B", got)
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, []string{"A", "B"}, extended.Titles())
}

func TestParseOffsetSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    OffsetSpec
		wantErr bool
	}{
		{"S01E25", OffsetSpec{Season: 1, HasEpisode: true, Episode: 25}, false},
		{"S01", OffsetSpec{Season: 1}, false},
		{"S02##E13", OffsetSpec{Season: 2, HasEpisode: true, Episode: 13, KeepSeason: true}, false},
		{"s1e2", OffsetSpec{Season: 1, HasEpisode: true, Episode: 2}, false},
		{" S00E12 ", OffsetSpec{Season: 0, HasEpisode: true, Episode: 12}, false},
		{"E12", OffsetSpec{}, true},
		{"S01E", OffsetSpec{}, true},
		{"S01##", OffsetSpec{}, true},
		{"", OffsetSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOffsetSpec(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOffset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetSpec_String(t *testing.T) {
	assert.Equal(t, "S01", OffsetSpec{Season: 1}.String())
	assert.Equal(t, "S01E25", OffsetSpec{Season: 1, HasEpisode: true, Episode: 25}.String())
	assert.Equal(t, "S02##E13", OffsetSpec{Season: 2, HasEpisode: true, Episode: 13, KeepSeason: true}.String())
}

func TestOffsetSpec_Apply(t *testing.T) {
	tests := []struct {
		name string
		spec string
		in   SeasonEpisode
		want SeasonEpisode
	}{
		{"renumber into next season", "S01E25", SeasonEpisode{1, 26, 2}, SeasonEpisode{2, 1, 2}},
		{"episode within season still bumps equal season", "S01E25", SeasonEpisode{1, 20, 2}, SeasonEpisode{2, 20, 2}},
		{"different season kept", "S01E12", SeasonEpisode{2, 13, 2}, SeasonEpisode{2, 1, 2}},
		{"keep season", "S02##E13", SeasonEpisode{1, 31, 2}, SeasonEpisode{2, 18, 2}},
		{"season only", "S03", SeasonEpisode{1, 7, 2}, SeasonEpisode{3, 7, 2}},
		{"three digit result keeps width", "S01E12", SeasonEpisode{1, 130, 3}, SeasonEpisode{2, 118, 3}},
		{"three digit input narrows", "S01E100", SeasonEpisode{1, 105, 3}, SeasonEpisode{2, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseOffsetSpec(tt.spec)
			require.NoError(t, err)
			got := tt.in
			spec.Apply(&got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewOffsetTable(t *testing.T) {
	table, err := NewOffsetTable(map[string]string{
		"Mobile Suit Gundam Iron-Blooded Orphans": "S01E25",
		"Broken":                                  "twenty five",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOffset)
	assert.Contains(t, err.Error(), "Broken")
	assert.Equal(t, 1, table.Len())

	spec, ok := table.Lookup("Mobile Suit Gundam Iron-Blooded Orphans")
	require.True(t, ok)
	assert.Equal(t, 25, spec.Episode)

	_, ok = table.Lookup("mobile suit gundam iron-blooded orphans")
	assert.True(t, ok, "falls back to case-insensitive lookup")

	_, ok = table.Lookup("Broken")
	assert.False(t, ok)
}

func TestOffsetTable_ZeroValue(t *testing.T) {
	var table OffsetTable
	_, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}
