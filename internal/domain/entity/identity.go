package entity

// CallerIdentity identifies the AWS principal the fetch layer is running as.
type CallerIdentity struct {
	Account string `json:"account"`
	Arn     string `json:"arn"`
	UserID  string `json:"user_id,omitempty"`
}
