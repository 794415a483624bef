package sentience

import (
	_ "github.com/Sentience-Framework/sentience-v3-sub001/providers/mysql"
	_ "github.com/Sentience-Framework/sentience-v3-sub001/providers/postgres"
	_ "github.com/Sentience-Framework/sentience-v3-sub001/providers/sqlite"
)
