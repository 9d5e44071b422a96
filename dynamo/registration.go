package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/growix/seminar-registration/registration"
	"github.com/growix/seminar-registration/slices"
)

var _ registration.Repository = &DB{}

type registrationDynamo struct {
	PK string
	SK string

	SeminarID       string
	Email           string
	FirstName       string
	LastName        string
	RegisteredAt    time.Time
	PaymentIntentID string
	AmountCents     int64
	FeeCents        int64
	Currency        string
}

const (
	registrationEntityName = "REGISTRATION"
)

func registrationPK(seminarId uuid.UUID) string {
	return seminarPK(seminarId)
}

func registrationSK(email string) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, email)
}

func registrationToDynamo(reg registration.Registration) registrationDynamo {
	return registrationDynamo{
		PK:              registrationPK(reg.SeminarID),
		SK:              registrationSK(reg.Email),
		SeminarID:       reg.SeminarID.String(),
		Email:           reg.Email,
		FirstName:       reg.FirstName,
		LastName:        reg.LastName,
		RegisteredAt:    reg.RegisteredAt,
		PaymentIntentID: reg.PaymentIntentID,
		AmountCents:     reg.Amount.Amount(),
		FeeCents:        reg.PlatformFee.Amount(),
		Currency:        reg.Amount.Currency().Code,
	}
}

func dynamoToRegistration(dynReg registrationDynamo) registration.Registration {
	return registration.Registration{
		SeminarID:       uuid.MustParse(dynReg.SeminarID),
		Email:           dynReg.Email,
		FirstName:       dynReg.FirstName,
		LastName:        dynReg.LastName,
		RegisteredAt:    dynReg.RegisteredAt,
		PaymentIntentID: dynReg.PaymentIntentID,
		Amount:          money.New(dynReg.AmountCents, dynReg.Currency),
		PlatformFee:     money.New(dynReg.FeeCents, dynReg.Currency),
	}
}

// CreateRegistration writes reg unless a registration already exists for the
// same seminar and email, in which case the stored record wins and is
// returned with created=false. Concurrent attempts and webhook redeliveries
// both land here; the conditional write is what makes the whole flow
// exactly-once.
func (d *DB) CreateRegistration(ctx context.Context, reg registration.Registration) (registration.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	dynamoReg := registrationToDynamo(reg)

	item, err := attributevalue.MarshalMap(dynamoReg)
	if err != nil {
		return registration.Registration{}, false, registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}

	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// On a lost race the old item comes back on the exception, saving a
		// read.
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condCheckFailedErr *types.ConditionalCheckFailedException
		if !errors.As(err, &condCheckFailedErr) {
			if errors.Is(err, context.DeadlineExceeded) {
				return registration.Registration{}, false, registration.NewTimeoutError("CreateRegistration timed out")
			}
			return registration.Registration{}, false, registration.NewFailedToWriteError("Failed PutItem call", err)
		}

		if len(condCheckFailedErr.Item) > 0 {
			var existing registrationDynamo
			err = attributevalue.UnmarshalMap(condCheckFailedErr.Item, &existing)
			if err != nil {
				panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
			}
			return dynamoToRegistration(existing), false, nil
		}

		existing, err := d.GetRegistration(ctx, reg.SeminarID, reg.Email)
		if err != nil {
			return registration.Registration{}, false, registration.NewFailedToFetchError("Failed to fetch the registration that won the write", err)
		}
		return existing, false, nil
	}

	return reg, true, nil
}

func (d *DB) GetRegistration(ctx context.Context, seminarId uuid.UUID, email string) (registration.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(seminarId)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(email)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.Registration{}, registration.NewTimeoutError("GetRegistration timed out")
		}
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration for seminar %q and email %q", seminarId, email), err)
	}

	if len(resp.Item) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistError(fmt.Sprintf("No registration for seminar %q and email %q", seminarId, email), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

func (d *DB) GetAllRegistrationsForSeminar(ctx context.Context, seminarId uuid.UUID, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(registrationPK(seminarId))).
		And(expression.Key("SK").BeginsWith(registrationEntityName))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build dynamo key expression: %s", err))
	}

	var startKey map[string]types.AttributeValue
	if cursor != nil {
		startKey, err = cursorToLastEval(*cursor)
		if err != nil {
			return registration.GetAllRegistrationsResponse{}, registration.NewInvalidCursorError("Invalid cursor", err)
		}
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// Fetch 1 more than limit to check if there is another page or not
		Limit:             aws.Int32(limit + 1),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return registration.GetAllRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to fetch registrations from dynamo", err)
	}

	var dynamoItems []registrationDynamo
	err = attributevalue.UnmarshalListOfMaps(result.Items, &dynamoItems)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal dynamo registrations: %s", err))
	}

	hasNextPage := len(dynamoItems) > int(limit)

	var newCursor *string
	if hasNextPage && len(result.LastEvaluatedKey) > 0 {
		// Can't use LastEvalKey directly because we grabbed an extra item to check for next page
		lastItemGivenToUser := result.Items[len(result.Items)-2]
		lastItemKey := getKeyFromItem(result.LastEvaluatedKey, lastItemGivenToUser)
		c, err := lastEvalKeyToCursor(lastItemKey)
		if err != nil {
			panic(fmt.Sprintf("failed to make cursor from lastEvalKey: %s", err))
		}
		newCursor = &c
	}

	return registration.GetAllRegistrationsResponse{
		Data: slices.Map(dynamoItems, func(v registrationDynamo) registration.Registration {
			return dynamoToRegistration(v)
		})[:min(int(limit), len(dynamoItems))],
		Cursor:      newCursor,
		HasNextPage: hasNextPage,
	}, nil
}
