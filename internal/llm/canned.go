package llm

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/schollz/closestmatch"
)

// Canned is the deterministic local fallback responder used when no AI
// provider is configured or the provider call fails or times out. It never
// returns an error: free chat must always get an answer.
type Canned struct {
	matcher *closestmatch.ClosestMatch
	moodOf  map[string]string
}

type cannedMood struct {
	name     string
	keywords []string
	replies  []string
}

var cannedMoods = []cannedMood{
	{
		name:     "demotivato",
		keywords: []string{"demotivato", "triste", "giù", "sconfitto", "deluso"},
		replies: []string{
			"%s, capisco come ti senti 💙. Anche i campioni hanno giornate difficili. Ricorda perché hai iniziato!",
			"Hey %s, è normale sentirsi così! Prenditi un momento, respira. Domani è un nuovo giorno! 🌟",
			"%s, ogni grande traguardo ha momenti difficili. Questa è solo una curva, non la fine! 💪",
		},
	},
	{
		name:     "stanco",
		keywords: []string{"stanco", "fatica", "esausto", "sfinito"},
		replies: []string{
			"Il riposo fa parte del processo, %s! 😌 Prenditi cura di te. Domani torni più forte!",
			"%s, anche i muscoli crescono nel riposo. Ricarica le batterie! ⚡",
			"Ascolta il tuo corpo, %s. Un giorno di pausa può fare miracoli! 🧘",
		},
	},
	{
		name:     "aiuto",
		keywords: []string{"aiuto", "help", "problema", "bloccato"},
		replies: []string{
			"Sono qui per te, %s! 🤗 Quale sfida stai affrontando? Parliamone insieme!",
			"%s, conta su di me! 💪 Dimmi cosa ti preoccupa e troviamo una soluzione!",
			"Ehi %s, i coach sono fatti per questo! Raccontami tutto 🎯",
		},
	},
	{
		name:     "felice",
		keywords: []string{"felice", "bene", "grande", "contento", "entusiasta"},
		replies: []string{
			"Fantastico, %s! 🎉 L'energia positiva è contagiosa! Continua così!",
			"Questo è lo spirito, %s! 🌟 Cavalca quest'onda di entusiasmo!",
			"%s, la tua energia è potente! 🔥 Usa questa motivazione per spingere ancora!",
		},
	},
}

const cannedDefault = "%s, ti ascolto! 👂 Come posso aiutarti oggi con i tuoi obiettivi? 🎯"

// NewCanned builds the responder with a fuzzy keyword matcher, so a close
// misspelling ("demotivata", "stancoo") still lands in the right mood.
func NewCanned() *Canned {
	moodOf := make(map[string]string)
	var words []string
	for _, m := range cannedMoods {
		for _, kw := range m.keywords {
			moodOf[kw] = m.name
			words = append(words, kw)
		}
	}

	return &Canned{
		matcher: closestmatch.New(words, []int{2, 3}),
		moodOf:  moodOf,
	}
}

// Respond returns a canned reply for the message, personalised with the
// user's name. Deterministic: the same message always yields the same
// reply.
func (c *Canned) Respond(name, message string) string {
	if name == "" {
		name = "amico"
	}
	lower := strings.ToLower(message)

	mood := ""
	for _, m := range cannedMoods {
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				mood = m.name
				break
			}
		}
		if mood != "" {
			break
		}
	}

	// No exact keyword: try a fuzzy match per word, accepted only when
	// the word clearly resembles the matched keyword.
	if mood == "" {
		for _, word := range strings.Fields(lower) {
			if len(word) < 5 {
				continue
			}
			closest := c.matcher.Closest(word)
			if closest != "" && sharesPrefix(word, closest, 4) {
				mood = c.moodOf[closest]
				break
			}
		}
	}

	if mood == "" {
		return fmt.Sprintf(cannedDefault, name)
	}

	for _, m := range cannedMoods {
		if m.name == mood {
			reply := m.replies[hashIndex(message, len(m.replies))]
			return fmt.Sprintf(reply, name)
		}
	}
	return fmt.Sprintf(cannedDefault, name)
}

func sharesPrefix(a, b string, n int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < n || len(rb) < n {
		return false
	}
	return string(ra[:n]) == string(rb[:n])
}

func hashIndex(s string, mod int) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(mod))
}
