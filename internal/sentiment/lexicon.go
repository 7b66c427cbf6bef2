package sentiment

// valences is a compact slice of the AFINN-165 lexicon covering the
// vocabulary that actually shows up in live-session feedback.
var valences = map[string]int{
	"abandon": -2, "abuse": -3, "amazing": 4, "ambitious": 2,
	"angry": -3, "annoying": -2, "appreciate": 2, "awesome": 4,
	"awful": -3, "bad": -3, "best": 3, "better": 2,
	"bored": -2, "boring": -3, "brilliant": 4, "broken": -1,
	"bug": -2, "calm": 2, "cannot": -1, "chaotic": -2,
	"clear": 1, "clever": 2, "confused": -2, "confusing": -2,
	"cool": 1, "crap": -3, "disappointed": -2, "disappointing": -2,
	"dislike": -2, "dull": -2, "easy": 1, "engaging": 2,
	"enjoy": 2, "enjoyed": 2, "excellent": 3, "excited": 3,
	"exciting": 3, "fail": -2, "fantastic": 4, "fascinating": 3,
	"fast": 1, "favorite": 2, "fun": 4, "funny": 4,
	"glad": 3, "good": 3, "great": 3, "happy": 3,
	"hard": -1, "hate": -3, "hated": -3, "helpful": 2,
	"horrible": -3, "impressed": 3, "impressive": 3, "incredible": 4,
	"insightful": 3, "inspiring": 2, "interesting": 2, "lame": -2,
	"like": 2, "liked": 2, "lost": -3, "loud": -1,
	"love": 3, "loved": 3, "lovely": 3, "meh": -1,
	"messy": -2, "nice": 3, "noisy": -1, "okay": 1,
	"pathetic": -2, "perfect": 3, "pleasant": 3, "pleased": 3,
	"poor": -2, "problem": -2, "quiet": 0, "recommend": 2,
	"rough": -2, "sad": -2, "slow": -2, "smart": 1,
	"smooth": 2, "stuck": -2, "stupid": -2, "superb": 5,
	"terrible": -3, "thanks": 2, "tired": -2, "ugly": -3,
	"unclear": -2, "understand": 1, "useful": 2, "useless": -2,
	"weak": -2, "weird": -2, "wonderful": 4, "worse": -3,
	"worst": -3, "wow": 4, "wrong": -2,
}
