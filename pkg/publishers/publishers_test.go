package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryAllTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: HTTP
    enabled: false
    http:
      url: " https://example.com/hook "
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/000000000000/uploads
      region: eu-west-1
      access_key_id: AKIDEXAMPLE
      secret_access_key: secret
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:000000000000:uploads
      region: eu-west-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: demo
      topic: uploads
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 4 {
		t.Fatalf("expected 4 publishers, got %d", len(reg.All()))
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected 3 enabled publishers, got %d", len(reg.Enabled()))
	}

	hook, ok := reg.ByID("hook")
	if !ok || hook.Type != TypeHTTP || hook.HTTP.URL != "https://example.com/hook" || hook.HTTP.Method != "POST" {
		t.Fatalf("unexpected http config %+v", hook.HTTP)
	}
	queue, _ := reg.ByID("queue")
	if queue.SQS.Region != "eu-west-1" || queue.SQS.AccessKeyID != "AKIDEXAMPLE" {
		t.Fatalf("inline aws settings not decoded: %+v", queue.SQS)
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"no id":        {Type: TypeHTTP},
		"no type":      {ID: "x"},
		"unknown type": {ID: "x", Type: "kafka"},
		"missing http": {ID: "x", Type: TypeHTTP},
		"sqs region":   {ID: "x", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "q"}},
		"sns arn":      {ID: "x", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSAuth: AWSAuth{Region: "r"}}},
		"pubsub topic": {ID: "x", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"a","type":"http","http":{"url":"https://x"}},{"id":"a","type":"http","http":{"url":"https://y"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
