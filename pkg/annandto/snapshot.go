package annandto

// Color identifies a shogi side as encoded by the server.
type Color string

const (
	Black Color = "BLACK"
	White Color = "WHITE"
)

func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Result is the server-side game outcome token.
type Result string

const (
	ResultOngoing  Result = "ONGOING"
	ResultBlackWin Result = "BLACK_WIN"
	ResultWhiteWin Result = "WHITE_WIN"
	ResultDraw     Result = "DRAW"
)

// Terminal reports whether the game has ended.
func (r Result) Terminal() bool {
	return r != "" && r != ResultOngoing
}

// Piece is one board piece as served. Promoted kinds (TO, NY, NK, NG, UM, RY)
// appear on the board only; hands hold base kinds.
type Piece struct {
	Type  string `json:"type"`
	Kanji string `json:"kanji"`
	Color Color  `json:"color"`
}

// AnnanEffect marks a square whose piece moves as a different kind under the
// Annan rule. Display-only.
type AnnanEffect struct {
	EffectiveType  string `json:"effective_type"`
	EffectiveKanji string `json:"effective_kanji"`
}

// Snapshot is the full authoritative game state returned by every endpoint.
// Rows run rank a..i, columns file 9..1, matching the wire layout.
// A snapshot is replaced wholesale on every response and never mutated.
type Snapshot struct {
	Board      [][]*Piece       `json:"board"`
	AnnanInfo  [][]*AnnanEffect `json:"annan_info"`
	Turn       Color            `json:"turn"`
	BlackHand  map[string]int   `json:"black_hand"`
	WhiteHand  map[string]int   `json:"white_hand"`
	LegalMoves []string         `json:"legal_moves"`
	InCheck    bool             `json:"in_check"`
	Result     Result           `json:"result"`
	Ply        int              `json:"ply"`
	AIEnabled  bool             `json:"ai_enabled"`
	AIColor    *Color           `json:"ai_color"`
	Log        []string         `json:"log"`
	Kif        string           `json:"kif"`
}

// PieceAt returns the piece on (file 1..9, rank 0..8), or nil.
func (s *Snapshot) PieceAt(file, rank int) *Piece {
	if s == nil || file < 1 || file > 9 || rank < 0 || rank > 8 {
		return nil
	}
	if rank >= len(s.Board) {
		return nil
	}
	row := s.Board[rank]
	col := 9 - file
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// EffectAt returns the Annan-rule annotation for (file, rank), or nil.
func (s *Snapshot) EffectAt(file, rank int) *AnnanEffect {
	if s == nil || file < 1 || file > 9 || rank < 0 || rank > 8 {
		return nil
	}
	if rank >= len(s.AnnanInfo) {
		return nil
	}
	row := s.AnnanInfo[rank]
	col := 9 - file
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// Hand returns the reserve mapping for the given side.
func (s *Snapshot) Hand(c Color) map[string]int {
	if s == nil {
		return nil
	}
	if c == Black {
		return s.BlackHand
	}
	return s.WhiteHand
}

// AutomatedSide returns the engine-driven color, if automation is both
// available on the server and configured for a side.
func (s *Snapshot) AutomatedSide() (Color, bool) {
	if s == nil || !s.AIEnabled || s.AIColor == nil {
		return "", false
	}
	return *s.AIColor, true
}
