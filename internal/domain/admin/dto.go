package admin

type VerifyLandlordRequest struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

// action accepts either field; older clients send status.
func (r VerifyLandlordRequest) action() string {
	if r.Action != "" {
		return r.Action
	}
	return r.Status
}

type Stats struct {
	Users      map[string]int64 `json:"users"`
	Properties map[string]int64 `json:"properties"`
	Leases     map[string]int64 `json:"leases"`
	TotalUsers int64            `json:"total_users"`
}
