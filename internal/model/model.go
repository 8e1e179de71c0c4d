package model

// Category is the competitive bucket a game falls into, derived from its tags.
// A game carrying exactly one ranked-axis tag and one format-axis tag lands in
// one of the four named categories; everything else is Uncategorized.
type Category int

const (
	Uncategorized Category = iota
	RankedNormal
	RankedSuperstar
	UnrankedNormal
	UnrankedSuperstar
)

func (c Category) String() string {
	switch c {
	case RankedNormal:
		return "ranked_normal"
	case RankedSuperstar:
		return "ranked_superstar"
	case UnrankedNormal:
		return "unranked_normal"
	case UnrankedSuperstar:
		return "unranked_superstar"
	default:
		return "uncategorized"
	}
}

// Categories lists the four named categories in their fixed reporting order.
// Uncategorized is deliberately absent: it is excluded from every
// category-scoped aggregate.
func Categories() []Category {
	return []Category{RankedNormal, RankedSuperstar, UnrankedNormal, UnrankedSuperstar}
}

// SwingType is the batter's swing on a contact event.
type SwingType int

const (
	SwingNone SwingType = iota
	SwingSlap
	SwingCharge
	SwingStar
	SwingBunt
)

func (s SwingType) String() string {
	switch s {
	case SwingSlap:
		return "slap"
	case SwingCharge:
		return "charge"
	case SwingStar:
		return "star"
	case SwingBunt:
		return "bunt"
	default:
		return "none"
	}
}

// MaxCharacterID bounds the valid character id range (0..54 inclusive).
const MaxCharacterID = 54

// Character is one roster entry.
type Character struct {
	ID   int64  `json:"char_id"`
	Name string `json:"name"`
}

// Game is one stored game, read-only to the engine. Tags are populated by the
// filter resolver's annotation pass; the raw tag ids feed the classifier.
type Game struct {
	ID              int64    `json:"id"`
	Timestamp       int64    `json:"date_time"` // unix seconds
	AwayUserID      int64    `json:"-"`
	HomeUserID      int64    `json:"-"`
	AwayUser        string   `json:"away_user"`
	HomeUser        string   `json:"home_user"`
	AwayCaptain     string   `json:"away_captain"`
	HomeCaptain     string   `json:"home_captain"`
	AwayScore       int      `json:"away_score"`
	HomeScore       int      `json:"home_score"`
	InningsPlayed   int      `json:"innings_played"`
	InningsSelected int      `json:"innings_selected"`
	TagIDs          []int64  `json:"-"`
	Tags            []string `json:"tags"`
}

// WonBy reports whether the given user won this game. Ties count for nobody.
func (g *Game) WonBy(userID int64) bool {
	if userID == g.AwayUserID {
		return g.AwayScore > g.HomeScore
	}
	if userID == g.HomeUserID {
		return g.HomeScore > g.AwayScore
	}
	return false
}

// LostBy is the mirror of WonBy.
func (g *Game) LostBy(userID int64) bool {
	if userID == g.AwayUserID {
		return g.AwayScore < g.HomeScore
	}
	if userID == g.HomeUserID {
		return g.HomeScore < g.AwayScore
	}
	return false
}

// ---- Per-domain counting lines ----
//
// One value = the raw counts of a single (game, user, character) stat row, or
// the field-by-field sum of many such rows once bucketed. Add never overwrites;
// derived rates live on methods and follow a shared zero-denominator policy:
// a zero denominator yields a defined 0, never a fault.

// Summary carries the counting stats the profile path aggregates: captaincy
// record plus the batting and pitching counts the leaderboard formulas need.
// Wins/Losses hold the game result for the row's user (0 or 1 on a raw row).
type Summary struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	RunsAllowed int `json:"runs_allowed"`
	OutsPitched int `json:"outs_pitched"`
	Hits        int `json:"hits"`
	AtBats      int `json:"at_bats"`
	WalksBB     int `json:"walks_bb"`
	WalksHit    int `json:"walks_hit"`
	RBI         int `json:"rbi"`
	Singles     int `json:"singles"`
	Doubles     int `json:"doubles"`
	Triples     int `json:"triples"`
	Homeruns    int `json:"homeruns"`
}

func (s Summary) Add(o Summary) Summary {
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.RunsAllowed += o.RunsAllowed
	s.OutsPitched += o.OutsPitched
	s.Hits += o.Hits
	s.AtBats += o.AtBats
	s.WalksBB += o.WalksBB
	s.WalksHit += o.WalksHit
	s.RBI += o.RBI
	s.Singles += o.Singles
	s.Doubles += o.Doubles
	s.Triples += o.Triples
	s.Homeruns += o.Homeruns
	return s
}

// Decisions is the captain's sample size: games with a recorded result.
func (s Summary) Decisions() int { return s.Wins + s.Losses }

func (s Summary) BattingAverage() float64 {
	if s.AtBats == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.AtBats)
}

func (s Summary) OnBasePct() float64 {
	den := s.AtBats + s.WalksBB + s.WalksHit
	if den == 0 {
		return 0
	}
	return float64(s.Hits+s.WalksBB+s.WalksHit) / float64(den)
}

func (s Summary) Slugging() float64 {
	if s.AtBats == 0 {
		return 0
	}
	bases := s.Singles + 2*s.Doubles + 3*s.Triples + 4*s.Homeruns
	return float64(bases) / float64(s.AtBats)
}

// ERA returns runs per nine-out stretch. With no recorded outs but runs
// allowed it returns -runs: an unbounded-bad sentinel that sorts behind every
// real ERA.
func (s Summary) ERA() float64 {
	if s.OutsPitched == 0 {
		if s.RunsAllowed > 0 {
			return -float64(s.RunsAllowed)
		}
		return 0
	}
	return float64(s.RunsAllowed) / (float64(s.OutsPitched) / 3)
}

// WinRate is only meaningful once Decisions() passes the ranking threshold;
// callers filter before evaluating it.
func (s Summary) WinRate() float64 {
	if s.Decisions() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Decisions())
}

// BattingContact counts contact outcomes, bucketed per swing type when the
// by-swing flag is active.
type BattingContact struct {
	Outs             int
	FoulHits         int
	FairHits         int
	UnknownHits      int
	SourHits         int
	NiceHits         int
	PerfectHits      int
	Singles          int
	Doubles          int
	Triples          int
	Homeruns         int
	MultiOut         int
	SacFlys          int
	PlateAppearances int
	RBI              int
}

func (b BattingContact) Add(o BattingContact) BattingContact {
	b.Outs += o.Outs
	b.FoulHits += o.FoulHits
	b.FairHits += o.FairHits
	b.UnknownHits += o.UnknownHits
	b.SourHits += o.SourHits
	b.NiceHits += o.NiceHits
	b.PerfectHits += o.PerfectHits
	b.Singles += o.Singles
	b.Doubles += o.Doubles
	b.Triples += o.Triples
	b.Homeruns += o.Homeruns
	b.MultiOut += o.MultiOut
	b.SacFlys += o.SacFlys
	b.PlateAppearances += o.PlateAppearances
	b.RBI += o.RBI
	return b
}

// Metrics is the leaf mapping written into the result tree. Identity fields
// (user, character, swing) are path components, never metrics. The key set is
// disjoint from BattingNonContact's; both merge into the same Batting leaf.
func (b BattingContact) Metrics() map[string]any {
	return map[string]any{
		"outs":              b.Outs,
		"foul_hits":         b.FoulHits,
		"fair_hits":         b.FairHits,
		"unknown_hits":      b.UnknownHits,
		"sour_hits":         b.SourHits,
		"nice_hits":         b.NiceHits,
		"perfect_hits":      b.PerfectHits,
		"singles":           b.Singles,
		"doubles":           b.Doubles,
		"triples":           b.Triples,
		"homeruns":          b.Homeruns,
		"multi_out":         b.MultiOut,
		"sacflys":           b.SacFlys,
		"plate_appearances": b.PlateAppearances,
		"rbi":               b.RBI,
	}
}

// BattingNonContact counts outcomes that never produce a swing bucket.
type BattingNonContact struct {
	WalksBB    int
	WalksHBP   int
	Strikeouts int
}

func (b BattingNonContact) Add(o BattingNonContact) BattingNonContact {
	b.WalksBB += o.WalksBB
	b.WalksHBP += o.WalksHBP
	b.Strikeouts += o.Strikeouts
	return b
}

func (b BattingNonContact) Metrics() map[string]any {
	return map[string]any{
		"walks_bb":   b.WalksBB,
		"walks_hbp":  b.WalksHBP,
		"strikeouts": b.Strikeouts,
	}
}

// PitchingSummary is the per-row pitching ledger.
type PitchingSummary struct {
	BattersFaced      int
	RunsAllowed       int
	HitsAllowed       int
	StrikeoutsPitched int
	StarPitchesThrown int
	OutsPitched       int
	PitchesThrown     int
}

func (p PitchingSummary) Add(o PitchingSummary) PitchingSummary {
	p.BattersFaced += o.BattersFaced
	p.RunsAllowed += o.RunsAllowed
	p.HitsAllowed += o.HitsAllowed
	p.StrikeoutsPitched += o.StrikeoutsPitched
	p.StarPitchesThrown += o.StarPitchesThrown
	p.OutsPitched += o.OutsPitched
	p.PitchesThrown += o.PitchesThrown
	return p
}

func (p PitchingSummary) Metrics() map[string]any {
	return map[string]any{
		"batters_faced":       p.BattersFaced,
		"runs_allowed":        p.RunsAllowed,
		"hits_allowed":        p.HitsAllowed,
		"strikeouts_pitched":  p.StrikeoutsPitched,
		"star_pitches_thrown": p.StarPitchesThrown,
		"outs_pitched":        p.OutsPitched,
		"total_pitches":       p.PitchesThrown,
	}
}

// PitchBreakdown counts individual pitch results for the pitcher.
type PitchBreakdown struct {
	Walks   int
	Balls   int
	Strikes int
}

func (p PitchBreakdown) Add(o PitchBreakdown) PitchBreakdown {
	p.Walks += o.Walks
	p.Balls += o.Balls
	p.Strikes += o.Strikes
	return p
}

func (p PitchBreakdown) Metrics() map[string]any {
	return map[string]any{
		"walks":   p.Walks,
		"balls":   p.Balls,
		"strikes": p.Strikes,
	}
}

// FieldingPosition counts pitches seen and outs recorded at each of the nine
// defensive positions.
type FieldingPosition struct {
	PitchesAtP  int
	PitchesAtC  int
	PitchesAt1B int
	PitchesAt2B int
	PitchesAt3B int
	PitchesAtSS int
	PitchesAtLF int
	PitchesAtCF int
	PitchesAtRF int
	OutsAtP     int
	OutsAtC     int
	OutsAt1B    int
	OutsAt2B    int
	OutsAt3B    int
	OutsAtSS    int
	OutsAtLF    int
	OutsAtCF    int
	OutsAtRF    int
}

func (f FieldingPosition) Add(o FieldingPosition) FieldingPosition {
	f.PitchesAtP += o.PitchesAtP
	f.PitchesAtC += o.PitchesAtC
	f.PitchesAt1B += o.PitchesAt1B
	f.PitchesAt2B += o.PitchesAt2B
	f.PitchesAt3B += o.PitchesAt3B
	f.PitchesAtSS += o.PitchesAtSS
	f.PitchesAtLF += o.PitchesAtLF
	f.PitchesAtCF += o.PitchesAtCF
	f.PitchesAtRF += o.PitchesAtRF
	f.OutsAtP += o.OutsAtP
	f.OutsAtC += o.OutsAtC
	f.OutsAt1B += o.OutsAt1B
	f.OutsAt2B += o.OutsAt2B
	f.OutsAt3B += o.OutsAt3B
	f.OutsAtSS += o.OutsAtSS
	f.OutsAtLF += o.OutsAtLF
	f.OutsAtCF += o.OutsAtCF
	f.OutsAtRF += o.OutsAtRF
	return f
}

func (f FieldingPosition) Metrics() map[string]any {
	return map[string]any{
		"pitches_at_p":  f.PitchesAtP,
		"pitches_at_c":  f.PitchesAtC,
		"pitches_at_1b": f.PitchesAt1B,
		"pitches_at_2b": f.PitchesAt2B,
		"pitches_at_3b": f.PitchesAt3B,
		"pitches_at_ss": f.PitchesAtSS,
		"pitches_at_lf": f.PitchesAtLF,
		"pitches_at_cf": f.PitchesAtCF,
		"pitches_at_rf": f.PitchesAtRF,
		"outs_at_p":     f.OutsAtP,
		"outs_at_c":     f.OutsAtC,
		"outs_at_1b":    f.OutsAt1B,
		"outs_at_2b":    f.OutsAt2B,
		"outs_at_3b":    f.OutsAt3B,
		"outs_at_ss":    f.OutsAtSS,
		"outs_at_lf":    f.OutsAtLF,
		"outs_at_cf":    f.OutsAtCF,
		"outs_at_rf":    f.OutsAtRF,
	}
}

// FieldingAction counts notable defensive plays.
type FieldingAction struct {
	JumpCatches   int
	DivingCatches int
	WallJumps     int
	SwapSuccesses int
	Bobbles       int
}

func (f FieldingAction) Add(o FieldingAction) FieldingAction {
	f.JumpCatches += o.JumpCatches
	f.DivingCatches += o.DivingCatches
	f.WallJumps += o.WallJumps
	f.SwapSuccesses += o.SwapSuccesses
	f.Bobbles += o.Bobbles
	return f
}

func (f FieldingAction) Metrics() map[string]any {
	return map[string]any{
		"jump_catches":   f.JumpCatches,
		"diving_catches": f.DivingCatches,
		"wall_jumps":     f.WallJumps,
		"swap_successes": f.SwapSuccesses,
		"bobbles":        f.Bobbles,
	}
}

// Misc carries star-power usage plus the game result. The win/loss pair is
// attributed exactly once per (game, user), on the captain's row, so summing
// rows never inflates a record by the roster size.
type Misc struct {
	Wins                    int
	Losses                  int
	DefensiveStarSuccesses  int
	DefensiveStarChances    int
	DefensiveStarChancesWon int
	OffensiveStarsPutInPlay int
	OffensiveStarSuccesses  int
	OffensiveStarChances    int
	OffensiveStarChancesWon int
}

func (m Misc) Add(o Misc) Misc {
	m.Wins += o.Wins
	m.Losses += o.Losses
	m.DefensiveStarSuccesses += o.DefensiveStarSuccesses
	m.DefensiveStarChances += o.DefensiveStarChances
	m.DefensiveStarChancesWon += o.DefensiveStarChancesWon
	m.OffensiveStarsPutInPlay += o.OffensiveStarsPutInPlay
	m.OffensiveStarSuccesses += o.OffensiveStarSuccesses
	m.OffensiveStarChances += o.OffensiveStarChances
	m.OffensiveStarChancesWon += o.OffensiveStarChancesWon
	return m
}

func (m Misc) Metrics() map[string]any {
	return map[string]any{
		"wins":                        m.Wins,
		"losses":                      m.Losses,
		"defensive_star_successes":    m.DefensiveStarSuccesses,
		"defensive_star_chances":      m.DefensiveStarChances,
		"defensive_star_chances_won":  m.DefensiveStarChancesWon,
		"offensive_stars_put_in_play": m.OffensiveStarsPutInPlay,
		"offensive_star_successes":    m.OffensiveStarSuccesses,
		"offensive_star_chances":      m.OffensiveStarChances,
		"offensive_star_chances_won":  m.OffensiveStarChancesWon,
	}
}

// RankedEntry is one leaderboard row: a character's derived card within a
// category, plus the display name it ranks under.
type RankedEntry struct {
	Name           string  `json:"name"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Homeruns       int     `json:"homeruns"`
	BattingAverage float64 `json:"batting_average"`
	OBP            float64 `json:"obp"`
	RBI            int     `json:"rbi"`
	SLG            float64 `json:"slg"`
	ERA            float64 `json:"era"`
}

// Card projects a summed bucket into its leaderboard row.
func Card(name string, s Summary) RankedEntry {
	return RankedEntry{
		Name:           name,
		Wins:           s.Wins,
		Losses:         s.Losses,
		Homeruns:       s.Homeruns,
		BattingAverage: s.BattingAverage(),
		OBP:            s.OnBasePct(),
		RBI:            s.RBI,
		SLG:            s.Slugging(),
		ERA:            s.ERA(),
	}
}
