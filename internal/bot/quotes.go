package bot

import (
	"fmt"
	"math/rand"
)

type quote struct {
	text   string
	author string
}

var quotes = []quote{
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"Success is the sum of small efforts repeated day in and day out.", "Robert Collier"},
	{"You are never too old to set another goal or to dream a new dream.", "C.S. Lewis"},
	{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
	{"It is during our darkest moments that we must focus to see the light.", "Aristotle"},
	{"The only impossible journey is the one you never begin.", "Tony Robbins"},
	{"In the middle of difficulty lies opportunity.", "Albert Einstein"},
	{"Believe you can and you're halfway there.", "Theodore Roosevelt"},
}

func randomQuote() quote {
	return quotes[rand.Intn(len(quotes))]
}

func formatQuote(q quote) string {
	return fmt.Sprintf("💬 <i>%s</i>\n\n· %s", escape(q.text), escape(q.author))
}
