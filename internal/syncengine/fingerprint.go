package syncengine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/locvowork/timekeeper/internal/domain"
)

type fingerprintPayload struct {
	Employees []domain.Employee `json:"employees"`
	History   domain.History    `json:"history"`
}

// Fingerprint returns a stable digest of roster and history. encoding/json
// writes map keys sorted, so history dates are ordered. nil and empty
// collections hash the same.
func Fingerprint(employees []domain.Employee, history domain.History) string {
	p := fingerprintPayload{Employees: employees, History: history}
	if p.Employees == nil {
		p.Employees = []domain.Employee{}
	}
	if p.History == nil {
		p.History = domain.History{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		// only unsupported values fail to marshal; the model has none
		panic("syncengine: fingerprint: " + err.Error())
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// StateFingerprint is Fingerprint for a whole State.
func StateFingerprint(s domain.State) string {
	return Fingerprint(s.Employees, s.History)
}
