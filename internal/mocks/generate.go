package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/subscriber --output domain/subscriber --outpkg subscribermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/activitylog --output domain/activitylog --outpkg activitylogmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/user --output domain/user --outpkg usermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PasswordHasher --dir ../domain/user --output domain/user --outpkg usermock --filename password_hasher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SessionIssuer --dir ../domain/user --output domain/user --outpkg usermock --filename session_issuer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/banner --output domain/banner --outpkg bannermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ImageStore --dir ../domain/banner --output domain/banner --outpkg bannermock --filename image_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sender --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename sender_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/jobscheduler --output domain/jobscheduler --outpkg jobschedulermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/sport --output domain/sport --outpkg sportmock --filename repository_mock.go
