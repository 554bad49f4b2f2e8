package create_hold

import "time"

// computeTTLExpiry вычисляет момент истечения холда
// Наивное истечение now + ttl зажимается сверху моментом "за минуту до начала
// слота" и снизу моментом now: холд не переживает начало слота и никогда не
// истекает в прошлом относительно момента создания. Если слот начинается в
// ближайшую минуту, итоговый TTL может оказаться нулевым
func computeTTLExpiry(now, startAt time.Time, ttlMinutes int) time.Time {
	if ttlMinutes < 1 {
		ttlMinutes = 1
	}

	expiry := now.Add(time.Duration(ttlMinutes) * time.Minute)

	if latest := startAt.Add(-time.Minute); expiry.After(latest) {
		expiry = latest
	}

	if expiry.Before(now) {
		expiry = now
	}

	return expiry
}
