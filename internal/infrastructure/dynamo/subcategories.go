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

// SubcategoryRepo provides typed DynamoDB operations for the subcategories table.
type SubcategoryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubcategoryRepo(client *dynamodb.Client, tableName string) *SubcategoryRepo {
	return &SubcategoryRepo{client: client, tableName: tableName}
}

func (r *SubcategoryRepo) Put(ctx context.Context, s *domain.Subcategory) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal subcategory: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return classify(err)
}

func (r *SubcategoryRepo) Get(ctx context.Context, subcategoryID string) (*domain.Subcategory, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("subcategory_id", subcategoryID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("subcategory not found: %w", domain.ErrNotFound)
	}
	var s domain.Subcategory
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubcategoryRepo) ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
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
	var subs []domain.Subcategory
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubcategoryRepo) Update(ctx context.Context, subcategoryID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("subcategory_id", subcategoryID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return classify(err)
}

func (r *SubcategoryRepo) HardDelete(ctx context.Context, subcategoryID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("subcategory_id", subcategoryID),
	})
	return classify(err)
}
