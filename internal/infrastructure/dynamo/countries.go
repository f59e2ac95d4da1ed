package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/nano-banana/admin-api/internal/domain"
)

// CountryRepo provides typed DynamoDB operations for the countries table.
type CountryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCountryRepo(client *dynamodb.Client, tableName string) *CountryRepo {
	return &CountryRepo{client: client, tableName: tableName}
}

func (r *CountryRepo) Put(ctx context.Context, c *domain.Country) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal country: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return classify(err)
}

func (r *CountryRepo) Get(ctx context.Context, countryID string) (*domain.Country, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("country_id", countryID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("country not found: %w", domain.ErrNotFound)
	}
	var c domain.Country
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CountryRepo) Scan(ctx context.Context) ([]domain.Country, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, classify(err)
	}
	var countries []domain.Country
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *CountryRepo) Update(ctx context.Context, countryID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("country_id", countryID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return classify(err)
}

func (r *CountryRepo) HardDelete(ctx context.Context, countryID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("country_id", countryID),
	})
	return classify(err)
}
