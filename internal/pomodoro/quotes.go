package pomodoro

// Quote は作業中に表示する一言です。
type Quote struct {
	Text   string
	Author string
}

// Quotes はローテーションに使う固定の一覧です。
var Quotes = []Quote{
	{Text: "The future depends on what you do today.", Author: "Mahatma Gandhi"},
	{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "The way to get started is to quit talking and begin doing.", Author: "Walt Disney"},
	{Text: "Your time is limited, so don't waste it living someone else's life.", Author: "Steve Jobs"},
	{Text: "It always seems impossible until it's done.", Author: "Nelson Mandela"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "Hardships often prepare ordinary people for an extraordinary destiny.", Author: "C.S. Lewis"},
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	{Text: "I am not a product of my circumstances. I am a product of my decisions.", Author: "Stephen Covey"},
	{Text: "Start where you are. Use what you have. Do what you can.", Author: "Arthur Ashe"},
}
