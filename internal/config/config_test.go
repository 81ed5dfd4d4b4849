package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:          HTTPConfig{Port: 8080},
		Elasticsearch: ElasticsearchConfig{Addrs: []string{"http://localhost:9200"}},
		Cache:         CacheConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingElasticsearchAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Elasticsearch.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing elasticsearch addrs")
	}
}

func TestValidate_MissingCacheAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Addrs = []string{}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}
}

func TestValidate_InvalidVectorizerProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Vectorizer.Provider = "word2vec"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown vectorizer provider")
	}

	expected := `vectorizer.provider must be "tfidf" or "openai", got "word2vec"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_TfidfRequiresCorpus(t *testing.T) {
	cfg := validConfig()
	cfg.Vectorizer = VectorizerConfig{Provider: "tfidf"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for tfidf without corpus_path")
	}

	cfg.Vectorizer.CorpusPath = "corpus.txt"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OpenAIRequiresKeyAndModel(t *testing.T) {
	cfg := validConfig()
	cfg.Vectorizer = VectorizerConfig{Provider: "openai", Model: "text-embedding-3-small"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for openai without api_key")
	}

	cfg.Vectorizer.APIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Vectorizer.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for openai without model")
	}
}

func TestValidate_NoVectorizer(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("semantic search is optional, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected TTLSec=300, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Cache: CacheConfig{TTLSec: 60, ReadinessTimeout: 15},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHATSEARCH_TEST_KEY", "sekret")

	in := []byte("api_key: ${CHATSEARCH_TEST_KEY}\nport: ${CHATSEARCH_TEST_PORT:-8080}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: sekret\nport: 8080\n" {
		t.Errorf("unexpected expansion: %q", out)
	}
}
