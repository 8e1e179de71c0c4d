// Package category classifies games into competitive buckets from their tags.
// The tag ids that mean ranked/unranked/normal/superstar are deployment data,
// not constants: they are loaded into a Table once at startup.
package category

import "github.com/slurve/dugout/internal/model"

// Table maps the two classification axes onto concrete tag ids.
type Table struct {
	RankedTagID    int64
	UnrankedTagID  int64
	NormalTagID    int64
	SuperstarTagID int64
}

// DefaultTable matches the reference deployment's tag numbering.
func DefaultTable() Table {
	return Table{RankedTagID: 1, UnrankedTagID: 2, SuperstarTagID: 3, NormalTagID: 4}
}

// Classify maps a game's tag set onto its category. A game must carry exactly
// one tag on each axis; a missing or conflicting axis yields Uncategorized.
func (t Table) Classify(tagIDs []int64) model.Category {
	var ranked, unranked, normal, superstar bool
	for _, id := range tagIDs {
		switch id {
		case t.RankedTagID:
			ranked = true
		case t.UnrankedTagID:
			unranked = true
		case t.NormalTagID:
			normal = true
		case t.SuperstarTagID:
			superstar = true
		}
	}
	if ranked == unranked || normal == superstar {
		return model.Uncategorized
	}
	switch {
	case ranked && normal:
		return model.RankedNormal
	case ranked && superstar:
		return model.RankedSuperstar
	case unranked && normal:
		return model.UnrankedNormal
	default:
		return model.UnrankedSuperstar
	}
}

// ClassifyGames builds the game-id → category index the aggregation passes
// join against.
func (t Table) ClassifyGames(games []model.Game) map[int64]model.Category {
	out := make(map[int64]model.Category, len(games))
	for i := range games {
		out[games[i].ID] = t.Classify(games[i].TagIDs)
	}
	return out
}
