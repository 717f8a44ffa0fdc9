package game

import "cgspins/internal/config"

// CalculateLevel derives the level name from lifetime spin points.
func CalculateLevel(points int) string {
	for _, lvl := range config.Levels {
		if points >= lvl.MinPoints && points <= lvl.MaxPoints {
			return lvl.Name
		}
	}
	// Points beyond every band map to the top level.
	return config.Levels[len(config.Levels)-1].Name
}

// LevelProgress returns the current level plus progress toward the next
// one. Total needed is 0 at the top level.
func LevelProgress(points int) (level string, progress, totalNeeded int) {
	level = CalculateLevel(points)

	for i, lvl := range config.Levels {
		if lvl.Name != level {
			continue
		}
		if i+1 >= len(config.Levels) {
			return level, 0, 0
		}
		next := config.Levels[i+1]
		return level, points - lvl.MinPoints, next.MinPoints - lvl.MinPoints
	}
	return level, 0, 0
}

// LevelEmoji returns the emoji for a level name.
func LevelEmoji(level string) string {
	for _, lvl := range config.Levels {
		if lvl.Name == level {
			return lvl.Emoji
		}
	}
	return "🎰"
}
