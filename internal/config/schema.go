package config

// Config is the top-level YAML structure for a sweep run.
type Config struct {
	Version   string    `yaml:"version"`
	DataDir   string    `yaml:"data_dir"`
	Inputs    Inputs    `yaml:"inputs"`
	Outputs   Outputs   `yaml:"outputs"`
	Policies  Policies  `yaml:"policies"`
	Denylists Denylists `yaml:"denylists"`
}

// Inputs are the collector artifacts the sweep reads. Paths are
// resolved relative to data_dir unless absolute.
type Inputs struct {
	Roster    string `yaml:"roster"`
	Events    string `yaml:"events"`
	AuthLog   string `yaml:"auth_log"`
	Processes string `yaml:"processes"`
	Services  string `yaml:"services"`
	Anomalies string `yaml:"anomalies"`
}

// Outputs are the files a run produces.
type Outputs struct {
	Log     string `yaml:"log"`     // append-only findings log
	Alerts  string `yaml:"alerts"`  // alerts.json
	Report  string `yaml:"report"`  // plain-text final report
	Metrics string `yaml:"metrics"` // prometheus textfile
}

// Policies selects which rule variants a run applies.
type Policies struct {
	// Inactivity names the roster policy variant: "strict" guards
	// the disabled-account warning with last_login_days < 30,
	// "broad" warns on any disabled account.
	Inactivity string `yaml:"inactivity"`

	// BruteForceThreshold is the per-IP fail count treated as a
	// brute-force indicator.
	BruteForceThreshold int `yaml:"brute_force_threshold"`

	// LiveProcesses enumerates processes from the running system
	// instead of reading the collector dump.
	LiveProcesses bool `yaml:"live_processes"`
}

// Denylists are the known-risky name sets injected into the matcher.
type Denylists struct {
	// Processes is matched case-insensitively.
	Processes []string `yaml:"processes"`
	// Services is matched case-sensitively (canonical identifiers).
	Services []string `yaml:"services"`
}
