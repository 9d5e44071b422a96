package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DB implements the seminar and registration repositories on a single
// DynamoDB table keyed by PK/SK.
type DB struct {
	dynamoClient *dynamodb.Client
	tableName    string
}

func NewDB(dynamoClient *dynamodb.Client, tableName string) *DB {
	return &DB{
		dynamoClient: dynamoClient,
		tableName:    tableName,
	}
}

func newEntityConditional() expression.ConditionBuilder {
	return expression.Name("PK").AttributeNotExists()
}

func newEntityVersionConditional(version int) expression.ConditionBuilder {
	return expression.Name("PK").AttributeNotExists().
		And(expression.Value(version).Equal(expression.Value(1)))
}

func exprMustBuild(builder expression.Builder) expression.Expression {
	expr, err := builder.Build()
	if err != nil {
		panic("failed to build dynamo expression")
	}

	return expr
}
