package services

import (
	"database/sql"
	"time"

	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/cache"
	"afyaconnect_back_end_go/notify"
	"afyaconnect_back_end_go/storage"
)

// Dependencies are the optional collaborators picked at startup from config.
type Dependencies struct {
	Images   storage.ImageStore
	Notifier notify.Notifier
	Cache    cache.Cache
	CacheTTL time.Duration
	Issuer   *auth.TokenIssuer
}

type ServiceManager struct {
	Hospitals    *HospitalService
	Testimonials *TestimonialService
	Inquiries    *InquiryService
	Statistics   *StatisticsService
	Accounts     *AccountService
}

func NewServiceManager(db *sql.DB, deps Dependencies) *ServiceManager {
	return &ServiceManager{
		Hospitals:    NewHospitalService(db),
		Testimonials: NewTestimonialService(db, deps.Images),
		Inquiries:    NewInquiryService(db, deps.Notifier),
		Statistics:   NewStatisticsService(db, deps.Cache, deps.CacheTTL),
		Accounts:     NewAccountService(db, deps.Issuer),
	}
}
