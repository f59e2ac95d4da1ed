package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nano-banana/admin-api/internal/domain"
)

// FeedbackRepo provides typed DynamoDB operations for the feedback table.
type FeedbackRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFeedbackRepo(client *dynamodb.Client, tableName string) *FeedbackRepo {
	return &FeedbackRepo{client: client, tableName: tableName}
}

func (r *FeedbackRepo) Put(ctx context.Context, f *domain.Feedback) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return classify(err)
}

func (r *FeedbackRepo) Get(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("feedback_id", feedbackID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("feedback not found: %w", domain.ErrNotFound)
	}
	var f domain.Feedback
	if err := attributevalue.UnmarshalMap(out.Item, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByStatus returns feedback entries with the given status, newest first,
// via the status-created_at GSI.
func (r *FeedbackRepo) ListByStatus(ctx context.Context, status string) ([]domain.Feedback, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-created_at-index"),
		KeyConditionExpression: aws.String("#st = :s"),
		ExpressionAttributeNames: map[string]string{
			"#st": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, classify(err)
	}
	var items []domain.Feedback
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FeedbackRepo) Update(ctx context.Context, feedbackID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("feedback_id", feedbackID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return classify(err)
}

func (r *FeedbackRepo) HardDelete(ctx context.Context, feedbackID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("feedback_id", feedbackID),
	})
	return classify(err)
}
