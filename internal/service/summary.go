package service

import (
	"fmt"
	"strings"
)

var summaryAchievements = []string{
	"Completed a challenging project",
	"Fixed a critical bug",
	"Helped a teammate with code review",
	"Learned a new technology",
	"Solved 10+ coding problems",
	"Maintained consistent daily streak",
}

var summaryImprovements = []string{
	"Focus on writing cleaner, more readable code",
	"Practice data structure problems regularly",
	"Spend more time on system design concepts",
	"Review code written by experienced developers",
	"Contribute more to open-source projects",
	"Improve time complexity of your algorithms",
	"Learn and apply design patterns consistently",
	"Practice debugging complex issues",
}

type weeklyStats struct {
	tasks    int
	hours    int
	streak   int
	accuracy int
}

func randomStats(intn func(int) int) weeklyStats {
	return weeklyStats{
		tasks:    intn(15) + 5,
		hours:    intn(20) + 8,
		streak:   intn(10) + 1,
		accuracy: intn(25) + 75,
	}
}

func renderSummary(intn func(int) int) string {
	st := randomStats(intn)

	var b strings.Builder
	b.WriteString("📊 Weekly Progress Summary\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString("📈 Statistics:\n")
	fmt.Fprintf(&b, "• Tasks Completed: %d\n", st.tasks)
	fmt.Fprintf(&b, "• Total Hours Coded: %dh\n", st.hours)
	fmt.Fprintf(&b, "• Current Streak: %d days 🔥\n", st.streak)
	fmt.Fprintf(&b, "• Problem Accuracy: %d%%\n\n", st.accuracy)

	b.WriteString("✨ Highlights:\n")
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, "✓ %s\n", summaryAchievements[intn(len(summaryAchievements))])
	}

	b.WriteString("\n💡 Areas for Improvement:\n")
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, "→ %s\n", summaryImprovements[intn(len(summaryImprovements))])
	}

	b.WriteString("\n🎯 Next Week Goals:\n")
	fmt.Fprintf(&b, "1. Aim for %d+ completed tasks\n", st.tasks+5)
	fmt.Fprintf(&b, "2. Code for %d+ hours\n", st.hours+5)
	fmt.Fprintf(&b, "3. Maintain or extend your %d day streak\n", st.streak)
	b.WriteString("4. Focus on identified improvement areas\n")
	b.WriteString("5. Review and learn from code reviews\n")

	b.WriteString("\n💪 Keep up the great work!\n")
	b.WriteString("Your consistent effort is building strong fundamentals.")
	return b.String()
}
