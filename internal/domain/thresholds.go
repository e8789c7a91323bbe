package domain

// ViewThresholds - пороги просмотров курса, по возрастанию.
// На каждом пороге один раз запрашивается купон у Snack.
var ViewThresholds = []int64{10, 50, 100, 500, 1000}

// CrossedThreshold решает, пересёк ли счётчик просмотров какой-то порог
// на шаге before -> after. Срабатывает только строгое пересечение:
// before < t <= after. Повторный подсчёт (after == before) или счётчик,
// уже стоящий на пороге, ничего не возвращают.
//
// Через публичный API счётчик растёт по единице, но на случай батчевых
// инкрементов из всех пересечённых порогов возвращается старший -
// младшие считаются неявно закрытыми.
func CrossedThreshold(before, after int64) (int64, bool) {
	if after <= before {
		return 0, false
	}
	for i := len(ViewThresholds) - 1; i >= 0; i-- {
		t := ViewThresholds[i]
		if before < t && t <= after {
			return t, true
		}
	}
	return 0, false
}
