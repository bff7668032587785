package main

type S3Record struct {
	S3 struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

type S3ObjectCreatedEvent struct {
	Records []S3Record `json:"Records"`
}

// ActionRecord is the JSON record emitted to stdout for every processed
// object, describing the single action taken on it.
type ActionRecord struct {
	Action                  string            `json:"action"`
	Bucket                  string            `json:"bucket"`
	Key                     string            `json:"key"`
	SizeBytes               int64             `json:"size_bytes"`
	Reason                  string            `json:"reason,omitempty"`
	Tags                    map[string]string `json:"tags,omitempty"`
	EstimatedMonthlyCostUSD float64           `json:"estimated_monthly_cost_usd"`
}
