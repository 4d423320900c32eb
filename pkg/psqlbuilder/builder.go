package psqlbuilder

import "github.com/Masterminds/squirrel"

// sb построитель запросов с плейсхолдерами PostgreSQL ($1, $2, ...)
var sb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func Select(columns ...string) squirrel.SelectBuilder {
	return sb.Select(columns...)
}

func Insert(table string) squirrel.InsertBuilder {
	return sb.Insert(table)
}

func Update(table string) squirrel.UpdateBuilder {
	return sb.Update(table)
}

func Delete(table string) squirrel.DeleteBuilder {
	return sb.Delete(table)
}
