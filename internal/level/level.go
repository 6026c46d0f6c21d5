// Package level tracks level progression and the enemy wave parameters.
package level

import "fmt"

// Manager holds the current level and the parameters of its enemy wave.
// It owns no entities.
type Manager struct {
	Level       int
	NumEnemies  int
	EnemySpeed  float64
	EnemyGrowth int     // Added to NumEnemies on every level-up
	SpeedGrowth float64 // Added to EnemySpeed on every level-up
}

// Notice describes a completed level-up for the presentation layer.
type Notice struct {
	Completed int
	Next      int
}

// Message is the banner shown between levels.
func (n Notice) Message() string {
	return fmt.Sprintf("Level %d completed! Moving to Level %d!", n.Completed, n.Next)
}

// New creates a manager at level 1.
func New(initialEnemies int, initialSpeed float64, enemyGrowth int, speedGrowth float64) *Manager {
	return &Manager{
		Level:       1,
		NumEnemies:  initialEnemies,
		EnemySpeed:  initialSpeed,
		EnemyGrowth: enemyGrowth,
		SpeedGrowth: speedGrowth,
	}
}

// LevelUp advances to the next level and grows the wave linearly.
func (m *Manager) LevelUp() Notice {
	m.Level++
	m.NumEnemies += m.EnemyGrowth
	m.EnemySpeed += m.SpeedGrowth
	return Notice{Completed: m.Level - 1, Next: m.Level}
}
