package bootstrap

import "github.com/pable/go-badminton-tracker/internal/model"

// DefaultEventName is used when no source names the event.
const DefaultEventName = "2026 马年首秀战"

// DefaultCourtCount is the number of courts in the built-in schedule.
const DefaultCourtCount = 3

type pairing struct {
	id       string
	round    int
	court    int
	category model.Category
	teamA    [2]string
	teamB    [2]string
}

var defaultPairings = []pairing{
	// court 1
	{"m1", 1, 1, model.CategoryMixed, [2]string{"林锋", "李祺祺"}, [2]string{"王小波", "谢卓珊"}},
	{"m2", 1, 1, model.CategoryMens, [2]string{"罗蒙", "陈顺星"}, [2]string{"陈小洪", "卢志辉"}},
	{"m3", 2, 1, model.CategoryWomens, [2]string{"唐英武", "高洁"}, [2]string{"崔倩男", "林小连"}},
	{"m4", 3, 1, model.CategoryMixed, [2]string{"林锋", "谢卓珊"}, [2]string{"王小波", "李祺祺"}},
	{"m5", 4, 1, model.CategoryMens, [2]string{"严勇文", "罗蒙"}, [2]string{"陈顺星", "陈小洪"}},
	{"m6", 5, 1, model.CategoryMixed, [2]string{"林锋", "唐英武"}, [2]string{"王小波", "高洁"}},

	// court 2
	{"m7", 1, 2, model.CategoryMens, [2]string{"严勇文", "江锐"}, [2]string{"罗琴荩", "卢志辉"}},
	{"m8", 1, 2, model.CategoryMixed, [2]string{"陈顺星", "崔倩男"}, [2]string{"罗琴荩", "唐英武"}},
	{"m9", 2, 2, model.CategoryMens, [2]string{"林锋", "王小波"}, [2]string{"罗蒙", "江锐"}},
	{"m10", 3, 2, model.CategoryWomens, [2]string{"李祺祺", "谢卓珊"}, [2]string{"高洁", "林小连"}},
	{"m11", 4, 2, model.CategoryMixed, [2]string{"陈顺星", "林小连"}, [2]string{"罗琴荩", "崔倩男"}},
	{"m12", 5, 2, model.CategoryMens, [2]string{"严勇文", "陈小洪"}, [2]string{"江锐", "卢志辉"}},

	// court 3
	{"m13", 1, 3, model.CategoryWomens, [2]string{"李祺祺", "唐英武"}, [2]string{"谢卓珊", "高洁"}},
	{"m14", 2, 3, model.CategoryMixed, [2]string{"林锋", "崔倩男"}, [2]string{"陈顺星", "李祺祺"}},
	{"m15", 3, 3, model.CategoryMens, [2]string{"王小波", "罗蒙"}, [2]string{"严勇文", "江锐"}},
	{"m16", 4, 3, model.CategoryWomens, [2]string{"唐英武", "林小连"}, [2]string{"崔倩男", "谢卓珊"}},
	{"m17", 5, 3, model.CategoryMixed, [2]string{"王小波", "林小连"}, [2]string{"罗琴荩", "唐英武"}},
}

// DefaultMatches returns a fresh copy of the built-in schedule with every
// match pending.
func DefaultMatches() []model.MatchRecord {
	out := make([]model.MatchRecord, len(defaultPairings))
	for i, p := range defaultPairings {
		out[i] = model.MatchRecord{
			ID:       p.id,
			Round:    p.round,
			Court:    p.court,
			Category: p.category,
			TeamA:    []string{p.teamA[0], p.teamA[1]},
			TeamB:    []string{p.teamB[0], p.teamB[1]},
			Status:   model.StatusPending,
		}
	}
	return out
}

// Default returns the built-in document.
func Default() model.Document {
	return model.Document{
		EventName:  DefaultEventName,
		CourtCount: DefaultCourtCount,
		Matches:    DefaultMatches(),
	}
}
