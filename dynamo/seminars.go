package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/growix/seminar-registration/seminars"
)

var _ seminars.Repository = &DB{}

type seminarDynamo struct {
	PK string
	SK string

	ID             string
	Version        int
	Kind           seminars.Kind
	Title          string
	Description    string
	Styles         []string
	StartTime      time.Time
	LocalDateTime  string
	TimeZone       string
	Venue          string
	Price          string
	OrganizerName  string
	OrganizerEmail string
	ImageName      *string
}

const (
	seminarEntityName = "SEMINAR"
)

func seminarPK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", seminarEntityName, id)
}

func seminarSK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", seminarEntityName, id)
}

func newSeminarDynamo(seminar seminars.Seminar) seminarDynamo {
	return seminarDynamo{
		PK:             seminarPK(seminar.ID),
		SK:             seminarSK(seminar.ID),
		ID:             seminar.ID.String(),
		Version:        seminar.Version,
		Kind:           seminar.Kind,
		Title:          seminar.Title,
		Description:    seminar.Description,
		Styles:         seminar.Styles,
		StartTime:      seminar.StartTime,
		LocalDateTime:  seminar.LocalDateTime,
		TimeZone:       seminar.TimeZone,
		Venue:          seminar.Venue,
		Price:          seminar.Price,
		OrganizerName:  seminar.OrganizerName,
		OrganizerEmail: seminar.OrganizerEmail,
		ImageName:      seminar.ImageName,
	}
}

func seminarFromSeminarDynamo(seminar seminarDynamo) seminars.Seminar {
	return seminars.Seminar{
		ID:             uuid.MustParse(seminar.ID),
		Version:        seminar.Version,
		Kind:           seminar.Kind,
		Title:          seminar.Title,
		Description:    seminar.Description,
		Styles:         seminar.Styles,
		StartTime:      seminar.StartTime,
		LocalDateTime:  seminar.LocalDateTime,
		TimeZone:       seminar.TimeZone,
		Venue:          seminar.Venue,
		Price:          seminar.Price,
		OrganizerName:  seminar.OrganizerName,
		OrganizerEmail: seminar.OrganizerEmail,
		ImageName:      seminar.ImageName,
	}
}

func (d *DB) GetSeminar(ctx context.Context, id uuid.UUID) (seminars.Seminar, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: seminarPK(id)},
			"SK": &types.AttributeValueMemberS{Value: seminarSK(id)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return seminars.Seminar{}, seminars.NewTimeoutError("GetSeminar timed out")
		}
		return seminars.Seminar{}, seminars.NewFailedToFetchError(fmt.Sprintf("Failed to fetch seminar with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return seminars.Seminar{}, seminars.NewSeminarDoesNotExistError(fmt.Sprintf("Seminar with ID %q not found", id), nil)
	}

	var seminar seminarDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &seminar)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal seminar from DB: %s", err))
	}
	return seminarFromSeminarDynamo(seminar), nil
}

func (d *DB) CreateSeminar(ctx context.Context, seminar seminars.Seminar) error {
	ctx, cancel := context.WithTimeoutCause(ctx, time.Second, seminars.NewTimeoutError("CreateSeminar to DB took too long"))
	defer cancel()

	dynamoItem := newSeminarDynamo(seminar)

	item, err := attributevalue.MarshalMap(dynamoItem)
	if err != nil {
		return seminars.NewFailedToTranslateToDBModelError("Failed to convert Seminar to seminarDynamo", err)
	}

	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(newEntityVersionConditional(dynamoItem.Version)))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailedErr) {
			return seminars.NewSeminarAlreadyExistsError(fmt.Sprintf("Seminar with ID %q already exists", seminar.ID), err)
		} else if errors.Is(err, context.DeadlineExceeded) {
			return seminars.NewTimeoutError("CreateSeminar timed out")
		} else {
			return seminars.NewFailedToWriteError("Failed PutItem call", err)
		}
	}

	return nil
}
