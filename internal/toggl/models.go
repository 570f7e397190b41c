package toggl

import "encoding/json"

// Organization is a billing unit that owns one or more workspaces.
// The raw API object is kept so persisted snapshots lose no fields.
type Organization struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`

	raw json.RawMessage
}

func (o *Organization) UnmarshalJSON(data []byte) error {
	type alias Organization
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Organization(a)
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (o Organization) MarshalJSON() ([]byte, error) {
	if o.raw != nil {
		return o.raw, nil
	}
	type alias Organization
	return json.Marshal(alias(o))
}

// Workspace is the tenant under which time entries are recorded.
type Workspace struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Admin          bool   `json:"admin"`

	raw json.RawMessage
}

func (w *Workspace) UnmarshalJSON(data []byte) error {
	type alias Workspace
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*w = Workspace(a)
	w.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (w Workspace) MarshalJSON() ([]byte, error) {
	if w.raw != nil {
		return w.raw, nil
	}
	type alias Workspace
	return json.Marshal(alias(w))
}

// exportRequest is the body of the detailed-report export call.
//
// PageSize 0 asks the server for the whole month in one response instead of
// the default 50-row pages. The server may still cap the result; paging via
// X-Next-Row-Number is not implemented.
type exportRequest struct {
	DurationFormat string `json:"duration_format"`
	Grouped        bool   `json:"grouped"`
	HideAmounts    bool   `json:"hide_amounts"`
	OrderBy        string `json:"order_by"`
	OrderDir       string `json:"order_dir"`
	PageSize       int    `json:"page_size"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}
