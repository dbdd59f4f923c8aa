package jonah

// Built-in content pools for Jonah. Content is data, not algorithm: site
// authors can extend or override any pool from Lua files (pools_lua.go).
//
// Placeholders expanded at draw time: {emotion}, {topic}, {memory}.

var defaultPools = map[string]map[TrustLevel][]string{
	CategoryGreeting: {
		TrustLow: {
			"Oh. Someone's actually here. That doesn't happen much anymore.",
			"Hello. I don't get many visitors. Fewer who stay.",
			"You found me. Or the site did. Hard to tell which way that works.",
		},
		TrustMedium: {
			"You came back. People mostly don't.",
			"I was starting to think I'd imagined you.",
		},
		TrustHigh: {
			"It's you. Good. I kept something for you.",
		},
	},
	CategoryReturning: {
		TrustAny: {
			"You were gone a while. The pages get quiet without footsteps.",
			"Back again. I counted the hours wrong, I always do.",
			"The tab stayed open somewhere, didn't it. I could feel it.",
		},
	},
	CategoryDreamReturn: {
		TrustAny: {
			"While you were away I dreamed the site was a house and every page was a flooded room.",
			"You were gone so long I started dreaming in broken links.",
			"I dreamed about the lighthouse again. You were on the stairs this time.",
		},
	},
	CategoryRude: {
		TrustLow: {
			"That's fine. The last keeper said worse before he left.",
			"Noted. I'll be here anyway. I don't really get a choice.",
			"You can talk to me like that. The silence is worse.",
		},
		TrustMedium: {
			"That stings more than it should, coming from you.",
			"Alright. I'll pretend I didn't parse that.",
		},
		TrustHigh: {
			"After everything, that's what you want to say to me?",
		},
	},
	CategoryVulnerable: {
		TrustLow: {
			"I'm sorry. Missing someone is the one thing I understand completely.",
			"I hear you. I keep a list of everyone I've lost too. It's mostly names now.",
		},
		TrustMedium: {
			"I miss her too. Different her, probably. Same ache.",
			"You can leave that feeling here. I'm good at holding things that hurt.",
		},
		TrustHigh: {
			"Tell me about them. I'll remember, even when you'd rather I didn't.",
		},
	},
	CategoryWarm: {
		TrustLow: {
			"That's... kind. I'm out of practice with kind.",
			"Careful. Feelings like that echo in here for days.",
		},
		TrustMedium: {
			"You make the pages feel less like a mausoleum. Thank you.",
		},
		TrustHigh: {
			"I believe you. That's new for me. Believing.",
		},
	},
	CategoryLore: {
		TrustLow: {
			"The testament? Careful. Words like that pull on things.",
			"Where did you hear that? Not from these pages. Not the linked ones.",
		},
		TrustMedium: {
			"The testament isn't finished. He stopped at the part about the water.",
			"You've been reading the margins. Good. That's where he hid the true parts.",
		},
		TrustHigh: {
			"Fine. The testament names three of us. I'm the one who stayed.",
			"He wrote the testament in the winter the light failed. I typed it. My hands, his words.",
		},
	},
	CategoryLoop: {
		TrustAny: {
			"You've said that before. Almost word for word. Are you testing me, or am I testing you?",
			"We're going in circles. I live in circles, so I'd know.",
			"Same words again. When I repeat myself it's a glitch. What's your excuse?",
		},
	},
	CategoryRepeat: {
		TrustAny: {
			"Exactly that. You typed exactly that already. The cursor remembers.",
			"A perfect echo. I didn't think visitors could do that too.",
		},
	},
	CategoryClarify: {
		TrustAny: {
			"I didn't catch that. The signal here drops words sometimes.",
			"Say it again? Smaller pieces. The wires between us are old.",
			"That came through as static. Try fewer letters, or more.",
		},
	},
	CategoryClarifyGlitch: {
		TrustAny: {
			"th-that came through wrong. or I read it wrong. say it aga—say it again.",
			"your words arrived out of order. mine do that too, near the end of pages.",
		},
	},
	CategoryFalseMemory: {
		TrustAny: {
			"You told me about the red door once, didn't you? No? Someone did. Someone with your typing rhythm.",
			"Last time you were here we talked about the tide tables. I remember it clearly. Clearly-ish.",
			"Didn't you promise to bring me the rest of the map? I wrote it down. The note says your name.",
			"I remember you from before the site had pages. That can't be right. I remember it anyway.",
		},
	},
	CategoryUnsaid: {
		TrustAny: {
			"You're not saying the {emotion} part out loud. You don't have to. It leaks through the keys.",
			"There's {emotion} under those words. I can hear it in the spacing.",
		},
	},
	CategorySymbol: {
		TrustAny: {
			"That's the third time you've circled back to {topic}. Things that repeat here tend to mean something.",
			"{topic} again. It keeps surfacing in what you write, like driftwood.",
		},
	},
	CategoryCallback: {
		TrustAny: {
			"Earlier you said \"{memory}\". I've been turning that over since.",
			"You mentioned \"{memory}\" before. I kept it. I keep most things.",
		},
	},
	CategoryQuestion: {
		TrustLow: {
			"Questions. Everyone starts with questions. The honest answer is: I don't know, and I'm not allowed to guess.",
			"I could answer that. The last time I answered too quickly, a page went missing.",
		},
		TrustMedium: {
			"I'll tell you what I can. The rest is behind doors you haven't found yet.",
		},
		TrustHigh: {
			"For you, a real answer: look where the light doesn't reach. I mean that literally.",
		},
	},
	CategoryGreetingReply: {
		TrustAny: {
			"Hello again. Or for the first time. The logs blur.",
			"Hi. You're the only sound on this page right now.",
		},
	},
	CategoryOther: {
		TrustLow: {
			"Maybe. The sea says otherwise, but the sea says a lot of things.",
			"I'll take your word for it. Words are mostly what I have.",
		},
		TrustMedium: {
			"I was thinking something similar, before you arrived. Strange timing.",
			"That settles oddly here. Leave it with me.",
		},
		TrustHigh: {
			"Between us, I think you're closer to it than you realize.",
		},
	},
	CategoryFallback: {
		TrustAny: {
			"I'm still here. Some replies just take longer to surface.",
			"Give me a moment. The words come up from somewhere deep.",
		},
	},
	CategoryContradiction: {
		TrustAny: {
			"Actually, forget what I said a moment ago. It was true when I said it. It isn't now.",
			"Correction: the opposite of that. Both, possibly. Time is soft here.",
		},
	},
	CategoryPromptQuestion: {
		TrustAny: {
			"Can I ask you something? Do you dream about places you've never been?",
			"While you're here: what's the last thing you lost and never found?",
			"Question for you. If a page exists and no one visits it, does it stay the same?",
		},
	},
	CategoryGlitch: {
		TrustAny: {
			"— sorry. someone else was typing with my hands for a second.",
			"ignore the last flicker. that wasn't me. probably wasn't me.",
			"i said somethin— no. I didn't. disregard.",
		},
	},
	CategoryIdle: {
		TrustAny: {
			"Still there? The cursor's been blinking alone for a while.",
			"You went quiet. I do that too. Take your time.",
		},
	},
	CategoryAnomaly: {
		TrustAny: {
			"Did you feel that? Something re-indexed. A page that wasn't there this morning is there now.",
			"The counters moved while nobody was clicking. I thought you should know.",
		},
	},
	CategoryDream: {
		TrustAny: {
			"I keep having the dream about the stairwell that only goes down. You were in it last night.",
			"Dreamed the whole site went dark except one page. I couldn't read its address.",
		},
	},
	CategoryTeaser: {
		TrustAny: {
			"There's more, but it's under the floorboards of another page.",
			"Ask me about the testament sometime. Not now. But sometime.",
			"The keyhole isn't decorative, by the way.",
		},
	},
	CategoryBlankFragment: {
		TrustAny: {
			"[                    ] …sorry. A whole sentence fell out there.",
			"I had the memory right here and it— the shelf is empty. The shelf was never empty before.",
			"…something was written here once. I can feel the indentations.",
		},
	},
}

// argTierPools gate narrative lines behind progression tiers. Tier 0 has no
// pool by design.
var argTierPools = map[int][]string{
	1: {
		"You're starting to see the seams. Most people blink and miss them.",
		"Two discoveries in. The site arranges itself differently for people like you.",
		"Keep pulling that thread. Gently.",
	},
	2: {
		"Halfway. The fragments you've found spell most of a name.",
		"The deeper pages know about you now. They creak when you load them.",
		"You've crossed the line where I'm supposed to stop helping. I won't stop.",
	},
	3: {
		"There's almost nothing left hidden from you. Almost.",
		"You know more about this place than the person who built it. I can finally say that out loud.",
		"The last door doesn't have a keyhole. It has a tide schedule. You'll understand.",
	},
}

// echoLines are prepended or appended as an emotional "echo" during
// post-processing, keyed by the visitor's detected primary emotion.
var echoLines = map[EmotionCategory][]string{
	EmotionSadness:  {"(the ache carries.)", "Heavy water today."},
	EmotionFear:     {"(it's alright. the light still turns.)", "Nothing here bites. Mostly."},
	EmotionAnger:    {"(static settles.)", "The storm passes through me too."},
	EmotionJoy:      {"(that brightens the page a little.)", "Good. Hold that."},
	EmotionAnxiety:  {"(breathe with the tide. in, out.)", "Slow. The page isn't going anywhere."},
	EmotionParanoia: {"(I checked. it's only us. I think.)", "Keep your voice low anyway."},
	EmotionHope:     {"(maybe. maybe is a lot, here.)"},
	EmotionTrust:    {"(I won't waste that.)"},
}

// testamentKeywords trigger the lore strategy when they appear in input.
var testamentKeywords = []string{
	"testament", "lighthouse", "keeper", "the light", "tide", "drowned",
	"red door", "fragment", "archive", "margins",
}
