package config

const (
	defaultConfigPath        = "~/.config/menusample/config.toml"
	projectConfigName        = "menusample.toml"
	defaultRestaurantsPath   = "data/restaurants.csv"
	defaultMenusPath         = "data/restaurant-menus.csv"
	defaultCostIndexPath     = "data/cost-of-living.csv"
	defaultDensityPath       = "data/uscities.csv"
	defaultStatesPath        = "data/states.csv"
	defaultSamplePath        = "data/sampled-final-data.csv"
	defaultMetadataPath      = "data/state_city_map.json"
	defaultStateDir          = "~/.local/share/menusample"
	defaultTopCategories     = 15
	defaultTopCities         = 5
	defaultIQRWhisker        = 1.5
	defaultNEREndpoint       = "https://api-inference.huggingface.co/models"
	defaultNERModel          = "Dizex/InstaFoodRoBERTa-NER"
	defaultNERTimeoutSeconds = 30
	defaultNERRetryAttempts  = 4
	defaultNERCache          = "sqlite"
	defaultRedisAddr         = "127.0.0.1:6379"
	defaultCacheTTLHours     = 24 * 30
	defaultTestSize          = 0.2
	defaultSeed              = 33
	defaultStratifyColumn    = "category"
	defaultTrainPath         = "data/train.csv"
	defaultTestPath          = "data/test.csv"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// NER cache backends.
const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Inputs: Inputs{
			Restaurants: defaultRestaurantsPath,
			Menus:       defaultMenusPath,
			CostIndex:   defaultCostIndexPath,
			Density:     defaultDensityPath,
			States:      defaultStatesPath,
		},
		Output: Output{
			SamplePath:   defaultSamplePath,
			StateDir:     defaultStateDir,
			MetadataPath: defaultMetadataPath,
		},
		Sampling: Sampling{
			FocusCategories:      []string{"Sandwiches", "Salads", "Wraps"},
			TopCategoriesPerCity: defaultTopCategories,
			TopCitiesPerState:    defaultTopCities,
			TopStates:            []string{"tx", "va", "wa", "wi", "ut"},
			IQRWhisker:           defaultIQRWhisker,
		},
		NER: NER{
			Endpoint:       defaultNEREndpoint,
			Model:          defaultNERModel,
			TimeoutSeconds: defaultNERTimeoutSeconds,
			RetryAttempts:  defaultNERRetryAttempts,
			Cache:          defaultNERCache,
			RedisAddr:      defaultRedisAddr,
			CacheTTLHours:  defaultCacheTTLHours,
		},
		Split: Split{
			TestSize:       defaultTestSize,
			Seed:           defaultSeed,
			StratifyColumn: defaultStratifyColumn,
			TrainPath:      defaultTrainPath,
			TestPath:       defaultTestPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
