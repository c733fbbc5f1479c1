package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/grandfamily/YijiaERP-sub001/internal/erp/entity"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
)

// UploadService 检验照片上传：落MinIO后把对象路径挂到检验记录
type UploadService struct {
	inspectionRepo *repository.InspectionRepository
	minioClient    *minio.Client
	bucketName     string
}

func NewUploadService(inspectionRepo *repository.InspectionRepository, minioClient *minio.Client, bucketName string) *UploadService {
	return &UploadService{
		inspectionRepo: inspectionRepo,
		minioClient:    minioClient,
		bucketName:     bucketName,
	}
}

// UploadInspectionPhoto 上传检验照片并追加到Photos
func (s *UploadService) UploadInspectionPhoto(ctx context.Context, inspectionID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.ArrivalInspection, error) {
	insp, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("inspections/%s/%s%s", time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return nil, fmt.Errorf("upload file: %w", err)
		}
	}

	insp.Photos = append(insp.Photos, objectName)
	insp.UpdatedAt = time.Now()
	if err := s.inspectionRepo.Update(ctx, insp); err != nil {
		return nil, err
	}
	return insp, nil
}

// GetPhoto 读取照片对象
func (s *UploadService) GetPhoto(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return object, nil
}
