package service

import "strings"

type keywordPool struct {
	keywords []string
	replies  []string
}

// Checked in order; the first pool with a matching keyword wins.
var keywordPools = []keywordPool{
	{
		keywords: []string{"react", "javascript", "code"},
		replies: []string{
			"Here's a helpful tip about React:\n\n1. Use hooks for state management\n2. Keep components small and focused\n3. Use React.memo for optimization\n4. Leverage useCallback for event handlers\n5. Follow the rules of hooks\n\nWould you like a specific code example?",
			"For JavaScript best practices:\n\n1. Use const/let instead of var\n2. Follow ES6+ syntax\n3. Use arrow functions when appropriate\n4. Implement error handling with try-catch\n5. Use async/await for asynchronous operations\n\nNeed help with any specific concept?",
			"To debug your code effectively:\n\n1. Use console.log() strategically\n2. Use browser DevTools debugger\n3. Break code into smaller functions\n4. Test edge cases\n5. Read error messages carefully\n\nCan you share the error you're facing?",
		},
	},
	{
		keywords: []string{"learn", "study", "how to"},
		replies: []string{
			"Great question! Here's a structured learning path:\n\n1. **Fundamentals**: Build a strong foundation\n2. **Practice**: Apply what you learn through projects\n3. **Build**: Create real-world applications\n4. **Review**: Revisit concepts regularly\n5. **Teach**: Explain concepts to solidify understanding\n\nWhat would you like to learn about?",
			"Here's my recommendation for effective learning:\n\n1. Start with official documentation\n2. Watch tutorial videos\n3. Complete coding challenges\n4. Build a project using the concept\n5. Participate in code reviews\n6. Share your knowledge with others\n\nWhich topic interests you?",
		},
	},
	{
		keywords: []string{"help", "problem", "error", "bug"},
		replies: []string{
			"I'm here to help! Let's debug this:\n\n1. **Error Message**: What exact error are you seeing?\n2. **Context**: What were you trying to do?\n3. **Steps**: What steps led to this error?\n4. **Code**: Can you share the relevant code?\n\nProvide more details and we'll solve this together!",
			"To solve this effectively:\n\n1. Isolate the problem\n2. Check recent changes\n3. Review error logs\n4. Test smaller code pieces\n5. Search for similar issues\n\nWhat's the specific error or issue you're facing?",
		},
	},
}

var generalReplies = []string{
	"Hello! I'm your AI coding assistant. I can help you with:\n\n📚 Learning concepts\n💻 Writing and debugging code\n🐛 Solving coding problems\n📝 Explaining concepts\n🎯 Best practices and tips\n\nWhat would you like to work on?",
	"Thanks for your question! I'm here to assist with coding and learning topics. Some things I can help with:\n\n• Code explanations and reviews\n• Debugging and troubleshooting\n• Learning resources and recommendations\n• Best practices for development\n• Project ideas and suggestions\n\nWhat's on your mind?",
}

func replyPool(prompt string) []string {
	lower := strings.ToLower(prompt)
	for _, pool := range keywordPools {
		for _, kw := range pool.keywords {
			if strings.Contains(lower, kw) {
				return pool.replies
			}
		}
	}
	return generalReplies
}
