package oauthtoken

import (
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
