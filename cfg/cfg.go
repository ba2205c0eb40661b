package cfg

type (
	App struct {
		Name    string
		Version string
		Env     string
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	GithubApi struct {
		AccessToken       string
		BaseUrl           string
		GraphqlUrl        string
		SearchQuery       string
		TimeoutSec        int
		MaxRetries        int
		RequestsPerSecond int
		ThrottleDelay     int
		RateLimitResetMin int // assumed reset gap when a rate-limit response has no reset header
	}

	Crawler struct {
		TargetUsers  int
		ExtraPages   int
		MaxRepos     int
		TopLanguages int
		PaceMs       int
		Workers      int
	}

	Store struct {
		Kind     string
		JsonPath string
	}

	KafkaProducer struct {
		TopicUser string
	}

	KafkaConsumer struct {
		GroupID string
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
		Consumer KafkaConsumer
	}

	Ui struct {
		Port int
	}
)

type Config struct {
	App       App
	Mysql     Mysql
	GithubApi GithubApi
	Crawler   Crawler
	Store     Store
	Kafka     Kafka
	Ui        Ui
}

// Defaults fills every zero value that the crawler cannot run without.
func (c *Config) Defaults() *Config {
	if c.GithubApi.BaseUrl == "" {
		c.GithubApi.BaseUrl = "https://api.github.com"
	}
	if c.GithubApi.GraphqlUrl == "" {
		c.GithubApi.GraphqlUrl = c.GithubApi.BaseUrl + "/graphql"
	}
	if c.GithubApi.SearchQuery == "" {
		c.GithubApi.SearchQuery = "followers:1..10000000"
	}
	if c.GithubApi.TimeoutSec <= 0 {
		c.GithubApi.TimeoutSec = 20
	}
	if c.GithubApi.MaxRetries <= 0 {
		c.GithubApi.MaxRetries = 5
	}
	if c.GithubApi.RequestsPerSecond <= 0 {
		c.GithubApi.RequestsPerSecond = 10
	}
	if c.GithubApi.ThrottleDelay <= 0 {
		c.GithubApi.ThrottleDelay = 50
	}
	if c.Crawler.TargetUsers <= 0 {
		c.Crawler.TargetUsers = 400
	}
	if c.Crawler.ExtraPages <= 0 {
		c.Crawler.ExtraPages = 2
	}
	if c.Crawler.MaxRepos <= 0 {
		c.Crawler.MaxRepos = 200
	}
	if c.Crawler.TopLanguages <= 0 {
		c.Crawler.TopLanguages = 5
	}
	if c.Crawler.PaceMs <= 0 {
		c.Crawler.PaceMs = 150
	}
	if c.Crawler.Workers <= 0 {
		c.Crawler.Workers = 1
	}
	if c.Store.Kind == "" {
		c.Store.Kind = "json"
	}
	if c.Store.JsonPath == "" {
		c.Store.JsonPath = "./docs/users.json"
	}
	if c.Kafka.Producer.TopicUser == "" {
		c.Kafka.Producer.TopicUser = "github-users"
	}
	if c.Kafka.Consumer.GroupID == "" {
		c.Kafka.Consumer.GroupID = "user-consumer-group"
	}
	if c.Ui.Port <= 0 {
		c.Ui.Port = 8080
	}
	return c
}

// HasToken reports whether a credential is configured. GraphQL paths and the
// sponsorship lookup are only attempted when it is.
func (c *Config) HasToken() bool {
	return c.GithubApi.AccessToken != ""
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
