package fieldcrypt_test

import (
	"io"
	"log/slog"

	"github.com/frahmantamala/clinic-management/internal/core/fieldcrypt"
	"github.com/frahmantamala/clinic-management/internal/core/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sealedRecord struct {
	ID       int64   `gorm:"primaryKey"`
	Name     string  `gorm:"column:encrypted_name;serializer:phi"`
	Nickname *string `gorm:"column:encrypted_nickname;serializer:phi"`
	Age      int     `gorm:"column:age"`
}

func (sealedRecord) TableName() string {
	return "sealed_records"
}

var _ = Describe("Serializer", func() {
	var (
		db *gorm.DB
		c  *fieldcrypt.Cipher
	)

	rawName := func(id int64) string {
		var raw string
		Expect(db.Raw("SELECT encrypted_name FROM sealed_records WHERE id = ?", id).Scan(&raw).Error).To(Succeed())
		return raw
	}

	BeforeEach(func() {
		var err error
		c, err = fieldcrypt.NewCipher(keyOne, 1)
		Expect(err).NotTo(HaveOccurred())
		fieldcrypt.Register(fieldcrypt.NewSerializer(c, slog.New(slog.NewTextHandler(io.Discard, nil))))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&sealedRecord{})).To(Succeed())
	})

	It("should store ciphertext and read plaintext", func() {
		nick := "Jun"
		rec := &sealedRecord{Name: "Juan Dela Cruz", Nickname: &nick, Age: 40}
		Expect(db.Create(rec).Error).To(Succeed())

		Expect(fieldcrypt.IsCiphertext(rawName(rec.ID))).To(BeTrue())

		var loaded sealedRecord
		Expect(db.First(&loaded, rec.ID).Error).To(Succeed())
		Expect(loaded.Name).To(Equal("Juan Dela Cruz"))
		Expect(loaded.Nickname).NotTo(BeNil())
		Expect(*loaded.Nickname).To(Equal("Jun"))
		Expect(loaded.Age).To(Equal(40))
	})

	It("should keep nil pointers as NULL", func() {
		rec := &sealedRecord{Name: "Ana"}
		Expect(db.Create(rec).Error).To(Succeed())

		var loaded sealedRecord
		Expect(db.First(&loaded, rec.ID).Error).To(Succeed())
		Expect(loaded.Nickname).To(BeNil())
	})

	It("should re-encrypt on update", func() {
		rec := &sealedRecord{Name: "Old Name"}
		Expect(db.Create(rec).Error).To(Succeed())
		before := rawName(rec.ID)

		rec.Name = "New Name"
		Expect(db.Save(rec).Error).To(Succeed())
		after := rawName(rec.ID)

		Expect(after).NotTo(Equal(before))
		Expect(after).NotTo(ContainSubstring("New Name"))

		var loaded sealedRecord
		Expect(db.First(&loaded, rec.ID).Error).To(Succeed())
		Expect(loaded.Name).To(Equal("New Name"))
	})

	It("should pass legacy plaintext rows through", func() {
		Expect(db.Exec("INSERT INTO sealed_records (id, encrypted_name, age) VALUES (?, ?, ?)", 77, "Legacy Plain", 30).Error).To(Succeed())

		var loaded sealedRecord
		Expect(db.First(&loaded, 77).Error).To(Succeed())
		Expect(loaded.Name).To(Equal("Legacy Plain"))
	})

	It("should blank an undecryptable field without failing the row", func() {
		before := testutil.ToFloat64(metrics.PHIDecryptFailures("sealed_records", "encrypted_name"))
		Expect(db.Exec("INSERT INTO sealed_records (id, encrypted_name, age) VALUES (?, ?, ?)", 78, "enc:v1:bm90LXJlYWxseS1jaXBoZXJ0ZXh0", 52).Error).To(Succeed())

		var loaded sealedRecord
		Expect(db.First(&loaded, 78).Error).To(Succeed())
		Expect(loaded.Name).To(BeEmpty())
		Expect(loaded.Age).To(Equal(52))

		after := testutil.ToFloat64(metrics.PHIDecryptFailures("sealed_records", "encrypted_name"))
		Expect(after - before).To(Equal(1.0))
	})
})
