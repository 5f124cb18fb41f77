package domain

// Popularity ranks how noteworthy a preprint looks from its listing metadata.
type Popularity int

const (
	// PopularityNone means no acceptance or publication signal was found.
	PopularityNone Popularity = 0
	// PopularityNotice means the comments announce a future acceptance or publication.
	PopularityNotice Popularity = 1
	// PopularityJournal means the entry carries a journal reference.
	PopularityJournal Popularity = 2
)

// MaxPopularity is the highest level a record can reach.
const MaxPopularity = PopularityJournal

// Valid reports whether p is one of the defined levels.
func (p Popularity) Valid() bool {
	return p >= PopularityNone && p <= MaxPopularity
}

// ArticleRecord is one listing entry, the unit of selection and storage.
type ArticleRecord struct {
	ExternalID string     `yaml:"externalId"`
	Title      string     `yaml:"title"`
	Authors    string     `yaml:"authors"`
	Subjects   string     `yaml:"subjects"`
	Comments   string     `yaml:"comments,omitempty"`
	Popularity Popularity `yaml:"popularity"`
	PDFLink    string     `yaml:"pdfLink"`

	// HasJournalRef is set during extraction and is not persisted.
	HasJournalRef bool `yaml:"-"`
}
