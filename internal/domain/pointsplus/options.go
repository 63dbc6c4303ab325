package pointsplus

// Default qualifying thresholds.
const (
	DefaultMinGames = 20
	DefaultMinMPG   = 15.0
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinGames sets the minimum games played for a player to qualify.
func WithMinGames(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minGames = n
		}
	}
}

// WithMinMPG sets the minimum minutes per game for a player to qualify.
func WithMinMPG(mpg float64) Option {
	return func(e *Engine) {
		if mpg >= 0 {
			e.minMPG = mpg
		}
	}
}
