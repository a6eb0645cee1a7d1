package publishers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mcsrvstat/mcsrvstat-go/internal/configfile"
)

// Publisher types accepted in the publishers file.
const (
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"
)

const (
	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one entry of the publishers file. Exactly the section
// matching Type is read.
type PublisherConfig struct {
	ID        string               `json:"id" yaml:"id"`
	Type      string               `json:"type" yaml:"type"`
	Enabled   *bool                `json:"enabled" yaml:"enabled"`
	SQS       *SQSPublisherConfig  `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig  `json:"sns" yaml:"sns"`
	HTTP      *HTTPPublisherConfig `json:"http" yaml:"http"`
	GCPPubSub *GCPPubSubConfig     `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// AWSConfig holds settings shared by the AWS publishers. Static keys and a
// custom endpoint are optional; the default credential chain is used otherwise.
type AWSConfig struct {
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// SQSPublisherConfig points at a queue. A queue URL ending in ".fifo" groups
// messages by target id.
type SQSPublisherConfig struct {
	QueueURL  string `json:"uri" yaml:"uri"`
	AWSConfig `json:",inline" yaml:",inline"`
}

// SNSPublisherConfig points at a topic.
type SNSPublisherConfig struct {
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	AWSConfig `json:",inline" yaml:",inline"`
}

// GCPPubSubConfig points at a Pub/Sub topic.
type GCPPubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	OrderByTarget   bool   `json:"order_by_target" yaml:"order_by_target"`
}

// HTTPPublisherConfig is a webhook receiving each event as a JSON body.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Configs is the validated publisher list in file order.
type Configs []PublisherConfig

// LoadConfigs reads the publishers file, applies defaults and validates every
// entry. Publisher ids must be unique.
func LoadConfigs(path string) (Configs, error) {
	var parsed struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	if err := configfile.Decode(path, "publishers", &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	out := make(Configs, 0, len(parsed.Publishers))
	seen := make(map[string]struct{}, len(parsed.Publishers))
	for i, cfg := range parsed.Publishers {
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		out = append(out, cfg)
	}
	return out, nil
}

// Enabled returns the entries whose enabled flag is unset or true.
func (c Configs) Enabled() Configs {
	var out Configs
	for _, cfg := range c {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}

// IsEnabled reports the enabled flag, defaulting to true.
func (cfg PublisherConfig) IsEnabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg *PublisherConfig) normalize() {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.SQS != nil {
		cfg.SQS.QueueURL = strings.TrimSpace(cfg.SQS.QueueURL)
		cfg.SQS.AWSConfig.normalize()
	}
	if cfg.SNS != nil {
		cfg.SNS.TopicARN = strings.TrimSpace(cfg.SNS.TopicARN)
		cfg.SNS.AWSConfig.normalize()
	}
	if cfg.GCPPubSub != nil {
		cfg.GCPPubSub.ProjectID = strings.TrimSpace(cfg.GCPPubSub.ProjectID)
		cfg.GCPPubSub.Topic = strings.TrimSpace(cfg.GCPPubSub.Topic)
		cfg.GCPPubSub.CredentialsFile = strings.TrimSpace(cfg.GCPPubSub.CredentialsFile)
	}
	if cfg.HTTP != nil {
		cfg.HTTP.normalize()
	}
}

func (c *AWSConfig) normalize() {
	c.Region = strings.TrimSpace(c.Region)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = httpDefaultMethod
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = nil
	if len(headers) > 0 {
		c.Headers = headers
	}
}

// validate checks the section selected by Type; other sections are ignored.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	var missing []string
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		if cfg.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", cfg.ID)
		}
		missing = required(map[string]string{"sqs.uri": cfg.SQS.QueueURL, "sqs.region": cfg.SQS.Region})
	case TypeSNS:
		if cfg.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", cfg.ID)
		}
		missing = required(map[string]string{"sns.topic_arn": cfg.SNS.TopicARN, "sns.region": cfg.SNS.Region})
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		missing = required(map[string]string{"http.url": cfg.HTTP.URL})
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return fmt.Errorf("gcp_pubsub config required for publisher %q", cfg.ID)
		}
		missing = required(map[string]string{"gcp_pubsub.project_id": cfg.GCPPubSub.ProjectID, "gcp_pubsub.topic": cfg.GCPPubSub.Topic})
	default:
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required for publisher %q", strings.Join(missing, ", "), cfg.ID)
	}
	return nil
}

func required(fields map[string]string) []string {
	var missing []string
	for name, v := range fields {
		if v == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
