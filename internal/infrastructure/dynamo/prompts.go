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

// PromptRepo provides typed DynamoDB operations for the prompts table.
type PromptRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPromptRepo(client *dynamodb.Client, tableName string) *PromptRepo {
	return &PromptRepo{client: client, tableName: tableName}
}

func (r *PromptRepo) Put(ctx context.Context, p *domain.Prompt) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return classify(err)
}

func (r *PromptRepo) Get(ctx context.Context, promptID string) (*domain.Prompt, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("prompt_id", promptID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("prompt not found: %w", domain.ErrNotFound)
	}
	var p domain.Prompt
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromptRepo) ListByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("category_id-index"),
		KeyConditionExpression: aws.String("category_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: categoryID},
		},
	})
	if err != nil {
		return nil, classify(err)
	}
	var prompts []domain.Prompt
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// ScanPage returns a page of prompts. cursor is a base64-encoded prompt_id.
func (r *PromptRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Prompt, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		promptID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("prompt_id", promptID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", classify(err)
	}
	var prompts []domain.Prompt
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &prompts); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["prompt_id"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return prompts, nextCursor, nil
}

func (r *PromptRepo) Update(ctx context.Context, promptID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("prompt_id", promptID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return classify(err)
}

func (r *PromptRepo) HardDelete(ctx context.Context, promptID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("prompt_id", promptID),
	})
	return classify(err)
}
