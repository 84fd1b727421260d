package validate

import (
	"github.com/Masterminds/semver/v3"

	"github.com/codingconcepts/versionlist/models"
)

// OrderingConflict is a pair of versions whose codes and names disagree:
// Later has the higher version code but the lower semantic version.
type OrderingConflict struct {
	Earlier string
	Later   string
}

// OrderingConflicts compares version code order with semantic version order.
// It only applies when every version name parses as a semantic version;
// otherwise there is nothing meaningful to compare and it returns nil.
func OrderingConflicts(doc *models.Document) []OrderingConflict {
	names, err := doc.VersionsSorted()
	if err != nil || len(names) < 2 {
		return nil
	}

	parsed := make([]*semver.Version, len(names))
	for i, name := range names {
		v, err := semver.NewVersion(name)
		if err != nil {
			return nil
		}
		parsed[i] = v
	}

	var conflicts []OrderingConflict
	for i := 1; i < len(names); i++ {
		if parsed[i].LessThan(parsed[i-1]) {
			conflicts = append(conflicts, OrderingConflict{Earlier: names[i-1], Later: names[i]})
		}
	}
	return conflicts
}

func (v *Validator) lintOrdering(doc *models.Document) {
	for _, c := range OrderingConflicts(doc) {
		v.logger.Warn("version code order disagrees with version names", "earlier", c.Earlier, "later", c.Later)
	}
}
