package level

import "testing"

func TestNew(t *testing.T) {
	m := New(5, 50, 5, 20)
	if m.Level != 1 || m.NumEnemies != 5 || m.EnemySpeed != 50 {
		t.Fatalf("New = %+v, want level 1 with 5 enemies at speed 50", m)
	}
}

func TestLevelUp(t *testing.T) {
	m := New(5, 50, 5, 20)

	cases := []struct {
		level   int
		enemies int
		speed   float64
		message string
	}{
		{2, 10, 70, "Level 1 completed! Moving to Level 2!"},
		{3, 15, 90, "Level 2 completed! Moving to Level 3!"},
		{4, 20, 110, "Level 3 completed! Moving to Level 4!"},
	}
	for _, tc := range cases {
		prevEnemies, prevSpeed := m.NumEnemies, m.EnemySpeed
		n := m.LevelUp()
		if m.Level != tc.level || m.NumEnemies != tc.enemies || m.EnemySpeed != tc.speed {
			t.Fatalf("after level-up: %+v, want level %d, %d enemies, speed %g", m, tc.level, tc.enemies, tc.speed)
		}
		if m.NumEnemies < prevEnemies || m.EnemySpeed < prevSpeed {
			t.Fatalf("wave parameters decreased: %+v", m)
		}
		if n.Next != tc.level || n.Completed != tc.level-1 {
			t.Fatalf("notice = %+v, want %d -> %d", n, tc.level-1, tc.level)
		}
		if got := n.Message(); got != tc.message {
			t.Fatalf("message = %q, want %q", got, tc.message)
		}
	}
}

func TestLevelUpZeroGrowth(t *testing.T) {
	m := New(3, 40, 0, 0)
	m.LevelUp()
	if m.Level != 2 || m.NumEnemies != 3 || m.EnemySpeed != 40 {
		t.Fatalf("zero growth changed wave: %+v", m)
	}
}
