package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	config := &Config{
		// App
		App: App{
			Name:    "github-user-crawler",
			Version: "0.0.1",
			Env:     "development",
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "github_users",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			BaseUrl:           "https://api.github.com",
			GraphqlUrl:        "https://api.github.com/graphql",
			SearchQuery:       "followers:1..10000000",
			TimeoutSec:        20,
			MaxRetries:        5,
			RequestsPerSecond: 10,
			ThrottleDelay:     50,
			RateLimitResetMin: 1,
		},

		// Crawler
		Crawler: Crawler{
			TargetUsers:  400,
			ExtraPages:   2,
			MaxRepos:     200,
			TopLanguages: 5,
			PaceMs:       150,
			Workers:      1,
		},

		// Store
		Store: Store{
			Kind:     "json",
			JsonPath: "./docs/users.json",
		},

		// Kafka
		Kafka: Kafka{
			Brokers:  []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{TopicUser: "github-users"},
			Consumer: KafkaConsumer{GroupID: "user-consumer-group"},
		},

		Ui: Ui{Port: 8080},
	}
	return config.Defaults(), nil
}
