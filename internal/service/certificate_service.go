package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/logger"
	"pulsa_edu_backend/pkg/monitoring"
	"pulsa_edu_backend/pkg/tracing"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 证书编号冲突时的最大尝试次数
const maxCertificateCodeAttempts = 3

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Certificat {{.Code}}</title>
</head>
<body>
<main class="certificate">
<h1>Certificat de réussite</h1>
<p>Décerné à <strong>{{.LearnerName}}</strong></p>
<p>pour avoir terminé le cours <strong>{{.CourseTitle}}</strong></p>
<p>Délivré le {{.IssuedAt}}</p>
<p class="code">Code de vérification : {{.Code}}</p>
</main>
</body>
</html>
`))

// CertificateVerification 公开校验结果，不包含用户其它信息
type CertificateVerification struct {
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issuedAt"`
	CourseTitle string    `json:"courseTitle"`
	CourseSlug  string    `json:"courseSlug"`
	LearnerName string    `json:"learnerName"`
}

type CertificateService struct {
	CertRepo *repository.CertificateRepository
	Storage  *StorageService

	now     func() time.Time
	newCode func() string
}

func NewCertificateService(certRepo *repository.CertificateRepository, storage *StorageService) *CertificateService {
	return &CertificateService{
		CertRepo: certRepo,
		Storage:  storage,
		now:      time.Now,
		newCode:  GenerateCertificateCode,
	}
}

// GenerateCertificateCode CERT- 加随机 UUID 的前 8 位十六进制（大写）
func GenerateCertificateCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return util.CertificateCodePrefix + strings.ToUpper(hex[:8])
}

// Issue 每个 (用户, 课程) 只有一张证书；已存在时原样返回。
// 第二个返回值表示本次是否新签发。
func (s *CertificateService) Issue(ctx context.Context, userID, courseID uint) (cert *model.Certificate, created bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "CertificateService.Issue",
		attribute.Int64("course.id", int64(courseID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	existing, err := s.CertRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load certificate: %w", err)
	}

	for attempt := 0; attempt < maxCertificateCodeAttempts; attempt++ {
		candidate := &model.Certificate{
			UserID:   userID,
			CourseID: courseID,
			Code:     s.newCode(),
			IssuedAt: s.now().UTC().Truncate(time.Millisecond),
		}
		inserted, err := s.CertRepo.CreateIfAbsent(ctx, candidate)
		if err != nil {
			return nil, false, fmt.Errorf("insert certificate: %w", err)
		}
		if inserted {
			monitoring.CertificatesIssued.Inc()
			logger.Log.Info("证书已签发",
				zap.Uint("userId", userID),
				zap.Uint("courseId", courseID),
				zap.String("code", candidate.Code))
			return candidate, true, nil
		}

		// 冲突：要么并发请求已签发，要么编号撞了
		existing, err := s.CertRepo.FindByUserAndCourse(ctx, userID, courseID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("reload certificate: %w", err)
		}
		logger.Log.Warn("certificate code collision, retrying", zap.String("code", candidate.Code))
	}
	return nil, false, fmt.Errorf("certificate code collision after %d attempts", maxCertificateCodeAttempts)
}

// ListByUser 用户的全部证书，最新在前
func (s *CertificateService) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	certs, err := s.CertRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

func (s *CertificateService) Verify(ctx context.Context, code string) (*CertificateVerification, error) {
	cert, err := s.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	v := &CertificateVerification{
		Code:     cert.Code,
		IssuedAt: cert.IssuedAt,
	}
	if cert.Course != nil {
		v.CourseTitle = cert.Course.Title
		v.CourseSlug = cert.Course.Slug
	}
	if cert.User != nil {
		v.LearnerName = cert.User.Name
	}
	return v, nil
}

// Document 渲染证书 HTML 并写入存储，返回访问地址。仅证书本人可用
func (s *CertificateService) Document(ctx context.Context, userID uint, code string) (url string, err error) {
	ctx, span := tracing.StartSpan(ctx, "CertificateService.Document", attribute.String("certificate.code", code))
	defer func() { tracing.EndSpan(span, err) }()

	cert, err := s.findByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if cert.UserID != userID {
		return "", util.ErrCertificateNotFound
	}

	var buf bytes.Buffer
	if err := RenderCertificate(&buf, cert); err != nil {
		return "", err
	}

	key := "certificates/" + cert.Code + ".html"
	url, err = s.Storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/html; charset=utf-8")
	if err != nil {
		return "", fmt.Errorf("store certificate document: %w", err)
	}
	return url, nil
}

// RenderCertificate 输出证书 HTML
func RenderCertificate(buf *bytes.Buffer, cert *model.Certificate) error {
	data := struct {
		Code        string
		LearnerName string
		CourseTitle string
		IssuedAt    string
	}{
		Code:     cert.Code,
		IssuedAt: cert.IssuedAt.Format(util.DateFormat),
	}
	if cert.User != nil {
		data.LearnerName = cert.User.Name
	}
	if cert.Course != nil {
		data.CourseTitle = cert.Course.Title
	}
	if err := certificateTemplate.Execute(buf, data); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}
	return nil
}

func (s *CertificateService) findByCode(ctx context.Context, code string) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return cert, nil
}
