package sheet

// RestToken is the lone file token marking a song the performer sits out.
const RestToken = "-"

// FixedColumns is the number of song-wide columns preceding performer columns.
const FixedColumns = 8

// SongRecord is one data row scoped to a single performer.
type SongRecord struct {
	// Row is the 1-based line of the row in the spreadsheet.
	Row int

	Category          string
	SongFolder        string
	PriorAct          string
	Nickname          string
	CueText           string
	GlobalEndNote     string
	Tempo             string
	StartingPerformer string

	FileTokens []string
	Patch      string
	EndNote    string
}

// Rests reports whether the performer does not play this song.
func (r SongRecord) Rests() bool {
	return len(r.FileTokens) == 1 && r.FileTokens[0] == RestToken
}

// Label returns the category/folder pair used in logs and errors.
func (r SongRecord) Label() string {
	return r.Category + "/" + r.SongFolder
}
