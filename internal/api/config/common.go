package config

// Config 配置主体
type Config struct {
	Server                Server          `mapstructure:"server"`
	DB                    DBConfig        `mapstructure:"database"`
	Redis                 RedisConfig     `mapstructure:"redis"`
	Mongo                 MongoConfig     `mapstructure:"mongo"`
	MinIO                 MinIOConfig     `mapstructure:"minio"`
	Elastic               ElasticConfig   `mapstructure:"elastic"`
	SMS                   SMSConfig       `mapstructure:"sms"`
	LLM                   LLMConfig       `mapstructure:"llm"`
	Logstash              LogstashConfig  `mapstructure:"logstash"`
	LibPath               LibPathConfig   `mapstructure:"lib_path"`
	Kafka                 KafkaConfig     `mapstructure:"kafka"`
	KafkaActivityConsumer KafkaConsumer   `mapstructure:"kafka_activity_consumer"`
	Challenge             ChallengeConfig `mapstructure:"challenge"`
}

// Server Server配置
type Server struct {
	Port          int    `mapstructure:"port"`
	SearchGateway string `mapstructure:"search_gateway"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	UserIndex string `mapstructure:"user_index"`
	PostIndex string `mapstructure:"post_index"`
}

type SMSConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	ApiKey   string `mapstructure:"api_key"`
}

type LLMConfig struct {
	URL            string           `mapstructure:"url"`
	TextModel      string           `mapstructure:"text_model"`
	VisionModel    string           `mapstructure:"vision_model"`
	EmbeddingModel string           `mapstructure:"embedding_model"`
	Dimensions     int              `mapstructure:"dimensions"`
	ThinkingMode   string           `mapstructure:"thinking_mode"`
	ApiKey         string           `mapstructure:"api_key"`
	PromptsPath    PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	Assistant   string `mapstructure:"assistant"`
	FitnessPlan string `mapstructure:"fitness_plan"`
	Certificate string `mapstructure:"certificate"`
	ContentSafe string `mapstructure:"content_safe"`
	ImageSafe   string `mapstructure:"image_safe"`
}

// LogstashConfig 日志外送配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// LibPathConfig 外部程序路径
type LibPathConfig struct {
	FFmpeg       string `mapstructure:"ffmpeg"`
	FFprobe      string `mapstructure:"ffprobe"`
	Whisper      string `mapstructure:"whisper"`
	WhisperModel string `mapstructure:"whisper_model"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ChallengeConfig 挑战赛相关配置
type ChallengeConfig struct {
	CertTemplate string `mapstructure:"cert_template"`
	MaxMembers   int    `mapstructure:"max_members"`
}
