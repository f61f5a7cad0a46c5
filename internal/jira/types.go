package jira

// Issue is a raw issue as returned by the Jira agile API, limited to the
// fields the report consumes.
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields holds the nested issue fields.
type Fields struct {
	Project     Project      `json:"project"`
	IssueType   IssueType    `json:"issuetype"`
	Summary     string       `json:"summary"`
	Created     string       `json:"created"`
	Updated     string       `json:"updated"`
	DueDate     string       `json:"duedate"`
	FixVersions []FixVersion `json:"fixVersions"`
}

// Project identifies the project an issue belongs to.
type Project struct {
	Key string `json:"key"`
}

// IssueType is the named kind of an issue (Epic, Story, Task, Bug, ...).
type IssueType struct {
	Name string `json:"name"`
}

// FixVersion is a release an issue is slated for.
type FixVersion struct {
	Name string `json:"name"`
}

// boardIssuesResponse is one page of the board issue endpoint. The server
// reports its own pagination window; the client trusts it to terminate.
type boardIssuesResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
