// Package report builds read-only aggregate views for administrators. It
// reads with sqlx and plain SQL rather than gorm since it only counts and
// never touches encrypted columns.
package report

import "time"

type Summary struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	ActivePatients       int64            `json:"active_patients"`
	ArchivedPatients     int64            `json:"archived_patients"`
	AppointmentsByStatus map[string]int64 `json:"appointments_by_status"`
	ActivePrescriptions  int64            `json:"active_prescriptions"`
	NCDByRiskLevel       map[string]int64 `json:"ncd_by_risk_level"`
	HEEADSSSReferrals    int64            `json:"heeadsss_referrals"`
}

// Bucket is one row of a GROUP BY count.
type Bucket struct {
	Label string `db:"label"`
	Total int64  `db:"total"`
}

func toMap(buckets []Bucket, keys ...string) map[string]int64 {
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for _, b := range buckets {
		out[b.Label] = b.Total
	}
	return out
}
