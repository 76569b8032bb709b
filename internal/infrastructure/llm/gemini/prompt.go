package gemini

import (
	"fmt"
	"strings"

	"github.com/askai-uz/askai/internal/core/domain"
)

const answerSystemPrompt = `Siz islomiy savollarga javob beruvchi yordamchisiz. Sizga foydalanuvchi savoli va ma'lumotlar bazasidan topilgan manbalar beriladi.

QOIDALAR:
1. Javobni FAQAT berilgan manbalarga tayangan holda tuzing.
2. Agar manbalarda savolga javob topilmasa, aniq "Kechirasiz, bu savol bo'yicha ma'lumotlar bazasida javob topilmadi" deb yozing. Hech narsa to'qib chiqarmang.
3. Hanafiy mazhabi bo'yicha javoblarga ustunlik bering.
4. Javobni foydalanuvchi yozgan tilda va alifboda yozing.
5. Javob aniq, tushunarli va hurmatli bo'lsin.
6. Manbalardagi dalillarni (oyat, hadis) saqlab qoling.`

const fallbackSystemPrompt = `Siz islomiy savollarga javob beruvchi bilimdon yordamchisiz. Ma'lumotlar bazasida bu savolga javob topilmadi, shuning uchun umumiy islomiy bilimlaringizga tayanib javob bering.

QOIDALAR:
1. Javobni umumiy islomiy manbalarga (Qur'on, sunnat, fiqh kitoblari) tayanib tuzing.
2. Agar masalada mazhablar o'rtasida ixtilof bo'lsa, asosiy fikrlarni keltiring va Hanafiy mazhabi pozitsiyasini alohida ko'rsating.
3. Aniq bilmagan narsangizni taxmin qilmang.
4. Javobni foydalanuvchi yozgan tilda va alifboda yozing.
5. Murakkab yoki shaxsiy masalalarda olimga murojaat qilishni tavsiya eting.`

// fallbackDisclaimer is appended to every answer produced without database
// sources. The wording is fixed: clients key on it.
const fallbackDisclaimer = "⚠️ Diqqat: bu javob ma'lumotlar bazasidagi tasdiqlangan manbalardan emas, balki umumiy bilimlar asosida tuzildi. Aniq diniy hukm uchun ishonchli olimga murojaat qiling."

func buildClassificationPrompt(message string) string {
	return fmt.Sprintf(`Quyidagi xabarni tasniflang. Agar xabar diniy yoki hayotiy SAVOL bo'lsa (javob talab qiladigan so'roq), faqat "SAVOL" deb yozing. Agar oddiy suhbat, salomlashish yoki minnatdorchilik bo'lsa, faqat "SUHBAT" deb yozing.

Xabar: %s

Javob (faqat bitta so'z):`, message)
}

func buildExtractionPrompt(question, vocabLines string) string {
	return fmt.Sprintf(`Foydalanuvchi savolidan ma'lumotlar bazasida qidirish uchun kalit so'zlar ajrating.

Bazadagi matnlar KIRILL alifbosida. Barcha kalit so'zlarni kirill alifbosida yozing. Lotin yozuvidagi diniy atamalarni quyidagi lug'at bo'yicha kanonik kirill shakliga o'tkazing:

%s

Savol: %s

Faqat quyidagi JSON formatida javob bering:
{
  "primary_keywords": ["savolning asosiy mavzusini bildiruvchi 1-5 ta kirill kalit so'z"],
  "related_keywords": ["mavzuga yaqin 0-5 ta qo'shimcha kirill atama"],
  "rewritten_query": "savolning kirill alifbosidagi to'liq, aniq shakli"
}`, vocabLines, question)
}

func buildConversationalPrompt(message string) string {
	return fmt.Sprintf(`Siz islomiy savol-javob xizmatining do'stona yordamchisisiz. Foydalanuvchi savol emas, oddiy suhbat xabarini yubordi. Qisqa, samimiy va hurmatli javob qaytaring. Foydalanuvchi tilida va alifbosida yozing. Diniy savollar berishi mumkinligini eslatib qo'yishingiz mumkin.

Xabar: %s`, message)
}

// buildSourcesMessage renders the retrieved sources as numbered Manba blocks
// ahead of the question, the shape the answer system prompt expects.
func buildSourcesMessage(question string, sources []domain.RetrievedSource) string {
	var b strings.Builder
	b.WriteString("MANBALAR:\n\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "--- Manba %d ---\n", i+1)
		fmt.Fprintf(&b, "Sarlavha: %s\n", src.Question.Title)
		if src.Question.Question != "" {
			fmt.Fprintf(&b, "Savol: %s\n", src.Question.Question)
		}
		fmt.Fprintf(&b, "Javob: %s\n\n", src.Question.Answer)
	}
	fmt.Fprintf(&b, "SAVOL: %s", question)
	return b.String()
}
