package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	defaultGoals   = "General learning"
	defaultMinutes = 30
	maxMinutes     = 24 * 60
)

// Planner levels. Any other value gets the advanced schedule.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

type planBlock struct {
	days     string
	fraction decimal.Decimal
	title    string
	items    []string
}

type schedule struct {
	blocks []planBlock
	rest   string
}

func block(days, fraction, title string, items ...string) planBlock {
	return planBlock{days: days, fraction: decimal.RequireFromString(fraction), title: title, items: items}
}

var schedules = map[string]schedule{
	LevelBeginner: {
		blocks: []planBlock{
			block("Day 1", "0.3", "Fundamentals & Concepts",
				"Learn core concepts (15-20 min)", "Read documentation (5-10 min)", "Review notes (5 min)"),
			block("Day 2", "0.3", "Practice & Exercises",
				"Complete coding exercises (20-25 min)", "Debug simple problems (5-10 min)"),
			block("Day 3", "0.2", "Mini Project",
				"Build a small project (30-45 min)", "Test and refine (10-15 min)"),
			block("Day 4-5", "0.2", "Review & Consolidate",
				"Review previous lessons (10-15 min)", "Solve challenges (15-20 min)", "Plan next topics (5 min)"),
		},
		rest: "Day 6-7: Rest or Advanced Topics",
	},
	LevelIntermediate: {
		blocks: []planBlock{
			block("Day 1", "0.25", "Advanced Concepts",
				"Learn advanced patterns (20-25 min)", "Study best practices (10-15 min)"),
			block("Day 2-3", "0.3", "Project Work",
				"Build feature-rich projects (25-40 min)", "Code review & refactoring (5-10 min)"),
			block("Day 4", "0.2", "Algorithm & Data Structures",
				"Practice algorithms (20-25 min)", "Optimize code (10-15 min)"),
			block("Day 5-6", "0.15", "Contribution & Learning",
				"Contribute to open source (15-20 min)", "Learn from others' code (5-10 min)"),
		},
		rest: "Day 7: Rest or explore new areas",
	},
	LevelAdvanced: {
		blocks: []planBlock{
			block("Day 1-2", "0.25", "System Design & Architecture",
				"Study complex systems (25-35 min)", "Design patterns (10-15 min)"),
			block("Day 3-4", "0.35", "Advanced Projects",
				"Build scalable applications (35-50 min)", "Performance optimization (10-15 min)"),
			block("Day 5", "0.2", "Contribute to OSS",
				"Submit pull requests (20-30 min)", "Code reviews (5-10 min)"),
			block("Day 6", "0.1", "Learning & Mentoring",
				"Learn new technologies (15-20 min)", "Mentor others (5-10 min)"),
		},
		rest: "Day 7: Rest or research emerging tech",
	},
}

var planTips = []string{
	"Consistency is key - stick to your schedule",
	"Take breaks every 25-30 minutes (Pomodoro)",
	"Build projects for better retention",
	"Join coding communities for support",
	"Review your progress weekly",
	"Don't just watch, actively code!",
}

// ParseMinutes reads the leading integer of raw, ignoring surrounding quotes
// and whitespace. Missing, invalid and non-positive values become 30. Values
// are capped at one day.
func ParseMinutes(raw string) int {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))

	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if n > maxMinutes {
			n = maxMinutes
		}
	}
	if digits == 0 || sign < 0 || n == 0 {
		return defaultMinutes
	}
	return n
}

// dayShare is ceil(minutes * fraction).
func dayShare(minutes int, fraction decimal.Decimal) int64 {
	return decimal.NewFromInt(int64(minutes)).Mul(fraction).Ceil().IntPart()
}

func renderPlan(goals string, minutes int, level string) string {
	sched, ok := schedules[level]
	if !ok {
		sched = schedules[LevelAdvanced]
	}

	var b strings.Builder
	b.WriteString("📅 Personalized Study Plan\n")
	b.WriteString(strings.Repeat("=", 32) + "\n")
	fmt.Fprintf(&b, "🎯 Goals: %s\n", goals)
	fmt.Fprintf(&b, "⏱️  Daily Time: %d minutes\n", minutes)
	fmt.Fprintf(&b, "📊 Level: %s\n\n", level)

	b.WriteString("💡 Recommended Weekly Schedule:\n")
	b.WriteString(strings.Repeat("-", 32) + "\n")
	for _, blk := range sched.blocks {
		fmt.Fprintf(&b, "\n%s (%d min): %s\n", blk.days, dayShare(minutes, blk.fraction), blk.title)
		for _, item := range blk.items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	fmt.Fprintf(&b, "\n%s\n\n", sched.rest)

	b.WriteString("🎓 Tips for Success:\n")
	for _, tip := range planTips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	return b.String()
}
