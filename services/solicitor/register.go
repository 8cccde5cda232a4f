package solicitor

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lendfast/appform/config"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils/logger"
)

//go:embed register.json
var embeddedRegister []byte

const (
	maxResults     = 10
	scoreThreshold = 0.2
)

// RegisterService answers solicitor lookups against the SRA register. The
// register is small and static, so every name search is a linear scan over
// the full list; no indexing is needed.
type RegisterService struct {
	records []types.SolicitorRecord
}

// NewRegisterService loads the register from the configured path, falling
// back to the embedded snapshot.
func NewRegisterService() *RegisterService {
	conf := config.LookupConfig()

	data := embeddedRegister
	if conf.SolicitorRegisterPath != "" {
		fileData, err := os.ReadFile(conf.SolicitorRegisterPath)
		if err != nil {
			logger.Warnf("Failed to read solicitor register from %s, using embedded copy: %v", conf.SolicitorRegisterPath, err)
		} else {
			data = fileData
		}
	}

	var records []types.SolicitorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Errorf("Failed to parse solicitor register: %v", err)
	}

	return &RegisterService{records: records}
}

// newRegisterServiceFromRecords is used by tests.
func newRegisterServiceFromRecords(records []types.SolicitorRecord) *RegisterService {
	return &RegisterService{records: records}
}

// FindBySRANumber looks up a register entry by exact SRA number, trimmed of
// surrounding whitespace. Returns nil when nothing matches.
func (s *RegisterService) FindBySRANumber(sraNumber string) *types.SolicitorRecord {
	needle := strings.TrimSpace(sraNumber)
	if needle == "" {
		return nil
	}
	for i := range s.records {
		if strings.TrimSpace(s.records[i].SRANumber) == needle {
			record := s.records[i]
			return &record
		}
	}
	return nil
}

type scoredRecord struct {
	record types.SolicitorRecord
	score  float64
}

// SearchByName ranks register entries against a name query and returns up to
// ten matches. A record scores 1 when the query is a substring of its name;
// otherwise it scores the proportion of query characters found in sequence.
func (s *RegisterService) SearchByName(query string) []types.SolicitorRecord {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	scored := make([]scoredRecord, 0, len(s.records))
	for _, record := range s.records {
		name := record.Name()
		if name == "" {
			continue
		}

		score := subsequenceScore(term, strings.ToLower(name))
		if strings.Contains(strings.ToLower(name), term) {
			score = 1
		}
		if score <= scoreThreshold {
			continue
		}
		scored = append(scored, scoredRecord{record: record, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	results := make([]types.SolicitorRecord, len(scored))
	for i, sr := range scored {
		results[i] = sr.record
	}
	return results
}

// subsequenceScore walks the query and the name together: matching characters
// advance both cursors, otherwise only the name cursor moves. The score is
// the fraction of the query consumed.
func subsequenceScore(query, name string) float64 {
	if len(query) == 0 {
		return 0
	}
	matches := 0
	i, j := 0, 0
	for i < len(query) && j < len(name) {
		if query[i] == name[j] {
			matches++
			i++
		}
		j++
	}
	return float64(matches) / float64(len(query))
}

// String describes the register size, for the startup log line.
func (s *RegisterService) String() string {
	return fmt.Sprintf("solicitor register with %d entries", len(s.records))
}
